package ledger

import (
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
)

// FilterLogs returns the logs matching q, following eth_getLogs semantics:
// nil block bounds are open, an empty address list matches any emitter and
// an empty topic position is a wildcard.
func (l *Ledger) FilterLogs(q ethereum.FilterQuery) []types.Log {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []types.Log
	for _, r := range l.state.Receipts {
		if q.FromBlock != nil && q.FromBlock.Sign() >= 0 && r.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && q.ToBlock.Sign() >= 0 && r.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		for _, log := range r.Logs {
			if q.BlockHash != nil && log.BlockHash != *q.BlockHash {
				continue
			}
			if len(q.Addresses) > 0 && !lo.Contains(q.Addresses, log.Address) {
				continue
			}
			if !matchTopics(log.Topics, q.Topics) {
				continue
			}
			out = append(out, cloneLog(log))
		}
	}
	return out
}

func matchTopics(topics []common.Hash, filter [][]common.Hash) bool {
	if len(filter) > len(topics) {
		return false
	}
	for i, alternatives := range filter {
		if len(alternatives) > 0 && !lo.Contains(alternatives, topics[i]) {
			return false
		}
	}
	return true
}
