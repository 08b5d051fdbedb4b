package bindings

import (
	"fmt"
	"reflect"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
)

// eventFactories maps event names to constructors of their typed structs
var eventFactories = map[string]func() domain.ParsedEvent{
	"Transfer":                      func() domain.ParsedEvent { return new(domain.TransferEvent) },
	"Approval":                      func() domain.ParsedEvent { return new(domain.ApprovalEvent) },
	"DelegateChanged":               func() domain.ParsedEvent { return new(domain.DelegateChangedEvent) },
	"DelegateVotesChanged":          func() domain.ParsedEvent { return new(domain.DelegateVotesChangedEvent) },
	"TokensMinted":                  func() domain.ParsedEvent { return new(domain.TokensMintedEvent) },
	"ProposalCreated":               func() domain.ParsedEvent { return new(domain.ProposalCreatedEvent) },
	"VoteCast":                      func() domain.ParsedEvent { return new(domain.VoteCastEvent) },
	"ProposalExecuted":              func() domain.ParsedEvent { return new(domain.ProposalExecutedEvent) },
	"ProposalCanceled":              func() domain.ParsedEvent { return new(domain.ProposalCanceledEvent) },
	"Paused":                        func() domain.ParsedEvent { return new(domain.PausedEvent) },
	"Unpaused":                      func() domain.ParsedEvent { return new(domain.UnpausedEvent) },
	"OwnershipTransferred":          func() domain.ParsedEvent { return new(domain.OwnershipTransferredEvent) },
	"PaymasterPaused":               func() domain.ParsedEvent { return new(domain.PaymasterPausedEvent) },
	"ParametersUpdated":             func() domain.ParsedEvent { return new(domain.ParametersUpdatedEvent) },
	"VotingPowerRequirementUpdated": func() domain.ParsedEvent { return new(domain.VotingPowerRequirementUpdatedEvent) },
	"UserBlocked":                   func() domain.ParsedEvent { return new(domain.UserBlockedEvent) },
	"UserUnblocked":                 func() domain.ParsedEvent { return new(domain.UserUnblockedEvent) },
	"FundsWithdrawn":                func() domain.ParsedEvent { return new(domain.FundsWithdrawnEvent) },
	"FundsReceived":                 func() domain.ParsedEvent { return new(domain.FundsReceivedEvent) },
	"TransactionSponsored":          func() domain.ParsedEvent { return new(domain.TransactionSponsoredEvent) },
}

// Selector returns the 4-byte selector at the start of calldata
func Selector(data []byte) ([4]byte, bool) {
	var sel [4]byte
	if len(data) < 4 {
		return sel, false
	}
	copy(sel[:], data[:4])
	return sel, true
}

func mustPack(contract *abi.ABI, method string, args ...any) []byte {
	enc, err := contract.Pack(method, args...)
	if err != nil {
		panic(err)
	}
	return enc
}

func decodeCall(contract *abi.ABI, data []byte) (*abi.Method, []any, error) {
	if len(data) < 4 {
		return nil, nil, domain.ErrInvalidCalldata
	}
	method, err := contract.MethodById(data[:4])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: 0x%x", domain.ErrUnknownFunction, data[:4])
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidCalldata, method.Sig, err)
	}
	return method, args, nil
}

// packEventLog encodes event by reflecting over the fields named after the
// ABI inputs. Indexed inputs become topics, the rest is ABI-packed data.
func packEventLog(contract *abi.ABI, addr common.Address, event domain.ParsedEvent) (*types.Log, error) {
	name := event.ContractEventName()
	abiEvent, ok := contract.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %s not found", name)
	}

	value := reflect.ValueOf(event)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	topics := []common.Hash{abiEvent.ID}
	var data []any
	for _, input := range abiEvent.Inputs {
		field := value.FieldByName(abi.ToCamelCase(input.Name))
		if !field.IsValid() {
			return nil, fmt.Errorf("event %s has no field for input %s", name, input.Name)
		}
		if !input.Indexed {
			data = append(data, field.Interface())
			continue
		}
		topic, err := abi.MakeTopics([]any{field.Interface()})
		if err != nil {
			return nil, fmt.Errorf("failed to encode topic %s of %s: %w", input.Name, name, err)
		}
		topics = append(topics, topic[0][0])
	}

	packed, err := abiEvent.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", name, err)
	}

	return &types.Log{
		Address: addr,
		Topics:  topics,
		Data:    packed,
	}, nil
}

func unpackEventLog(contract *abi.ABI, log *types.Log) (domain.ParsedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}
	abiEvent, err := contract.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("unknown event signature %s", log.Topics[0].Hex())
	}
	factory, ok := eventFactories[abiEvent.Name]
	if !ok {
		return nil, fmt.Errorf("no event type registered for %s", abiEvent.Name)
	}

	out := factory()
	if len(log.Data) > 0 {
		if err := contract.UnpackIntoInterface(out, abiEvent.Name, log.Data); err != nil {
			return nil, err
		}
	}
	indexed := lo.Filter(abiEvent.Inputs, func(arg abi.Argument, _ int) bool {
		return arg.Indexed
	})
	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return nil, err
	}
	return out, nil
}
