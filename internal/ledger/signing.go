package ledger

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// resolve fills in the value and gas defaults a transaction is hashed and
// charged with
func (l *Ledger) resolve(tx *Transaction) (value, gasPrice *big.Int, gasLimit uint64, err error) {
	value = new(big.Int)
	if tx.Value != nil {
		if tx.Value.Sign() < 0 {
			return nil, nil, 0, domain.ErrInvalidTransaction
		}
		value.Set(tx.Value)
	}
	gasPrice = l.cfg.DefaultGasPrice
	if tx.GasPrice != nil {
		gasPrice = tx.GasPrice
	}
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	gasLimit = tx.GasLimit
	if gasLimit == 0 {
		gasLimit = l.cfg.DefaultGasLimit
	}
	return value, gasPrice, gasLimit, nil
}

// SigningHash returns the hash tx would be included under if it were
// submitted now. It commits to the chain id and the sender's next nonce, so a
// signature over it is good for one inclusion only.
func (l *Ledger) SigningHash(tx *Transaction) (common.Hash, error) {
	if tx == nil || tx.From == (common.Address{}) || tx.To == (common.Address{}) {
		return common.Hash{}, domain.ErrInvalidTransaction
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	value, gasPrice, gasLimit, err := l.resolve(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return l.txHash(tx, l.state.Nonces[tx.From], value, gasPrice, gasLimit)
}

// Sign sets tx.Signature to key's signature of the signing hash. tx.From must
// be the key's address.
func (l *Ledger) Sign(tx *Transaction, key *ecdsa.PrivateKey) error {
	if signer := crypto.PubkeyToAddress(key.PublicKey); signer != tx.From {
		return fmt.Errorf("%w: key belongs to %s", domain.ErrSignerMismatch, signer.Hex())
	}
	hash, err := l.SigningHash(tx)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	tx.Signature = sig
	return nil
}

// verifySigner checks that sig over hash was made by from. V may be 0/1 or
// the 27/28 wallets produce.
func verifySigner(hash common.Hash, from common.Address, sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return domain.ErrInvalidSignature
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash.Bytes(), normalized)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	if crypto.PubkeyToAddress(*pub) != from {
		return domain.ErrSignerMismatch
	}
	return nil
}
