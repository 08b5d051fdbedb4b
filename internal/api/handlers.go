package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bloom-dao/bloomgov/internal/domain"
	"github.com/bloom-dao/bloomgov/internal/domain/models"
	"github.com/bloom-dao/bloomgov/internal/ledger"
	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// maxBodyBytes bounds relayed transaction documents
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// statusFor maps an error category to an HTTP status
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrUnauthorized:
		return http.StatusForbidden
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrStateConflict:
		return http.StatusConflict
	case domain.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeError(w, status, domain.RevertReason(err))
}

func pathAddress(r *http.Request) (common.Address, error) {
	raw := r.PathValue("address")
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address %q: %w", raw, domain.ErrValidation)
	}
	return common.HexToAddress(raw), nil
}

func pathProposalID(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q: %w", raw, domain.ErrValidation)
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy:   true,
		BlockNumber: s.services.Chain.BlockNumber(),
		Time:        s.services.Chain.Now(),
	})
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	status := models.ProposalStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.ProposalStatusActive, models.ProposalStatusExpired,
		models.ProposalStatusExecuted, models.ProposalStatusCanceled:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		return
	}

	result, err := s.services.ListProposals.Run(r.Context(), usecase.ListProposalsParams{Status: status})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProposalListResponse{
		Proposals: result.Proposals,
		Summary:   result.Summary,
		Time:      result.Now,
	})
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := pathProposalID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	result, err := s.services.ShowProposal.Run(r.Context(), usecase.ShowProposalParams{ProposalID: id})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProposalResponse{
		Proposal:   result.Proposal,
		Votes:      result.Votes,
		Executable: result.Executable,
		Time:       result.Now,
	})
}

func (s *Server) handleGetVote(w http.ResponseWriter, r *http.Request) {
	id, err := pathProposalID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	voter, err := pathAddress(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	result, err := s.services.ShowProposal.Run(r.Context(), usecase.ShowProposalParams{ProposalID: id, Voter: voter})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VoteReceiptResponse{
		ProposalID:  id,
		Voter:       voter,
		VoteReceipt: *result.VoteReceipt,
	})
}

func (s *Server) handleVotingPower(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	info, err := s.services.ShowAccount.Run(r.Context(), usecase.ShowAccountParams{Address: addr})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VotingPowerResponse{
		Address:     info.Address,
		VotingPower: info.VotingPower,
		Balance:     info.Balance,
		Delegate:    info.Delegate,
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	info, err := s.services.ShowAccount.Run(r.Context(), usecase.ShowAccountParams{Address: addr})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handlePaymasterStats(w http.ResponseWriter, r *http.Request) {
	info, err := s.services.ShowPaymaster.Run(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info.Stats)
}

func (s *Server) handlePaymasterParameters(w http.ResponseWriter, r *http.Request) {
	info, err := s.services.ShowPaymaster.Run(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info.Parameters)
}

func (s *Server) handlePaymasterUser(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	result, err := s.services.CheckEligibility.Run(r.Context(), addr)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{
		Address:   addr,
		Blocked:   result.Blocked,
		UserStats: result.Stats,
	})
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	addr, err := pathAddress(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	result, err := s.services.CheckEligibility.Run(r.Context(), addr)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSigningHash returns the hash a client signs to relay the posted
// transaction. The signature field of the body is ignored.
func (s *Server) handleSigningHash(w http.ResponseWriter, r *http.Request) {
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	result, err := s.services.RelayTransaction.SigningHash(r.Context(), tx)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (*ledger.Transaction, bool) {
	var tx ledger.Transaction
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction: "+err.Error())
		return nil, false
	}
	return &tx, true
}

// handleRelayTransaction submits a client-built transaction. An included
// transaction is persisted whether or not it reverted; a revert is reported
// with the status of its error category and the receipt in the body.
func (s *Server) handleRelayTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	result, err := s.services.RelayTransaction.Run(r.Context(), tx)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	resp := TransactionResponse{
		Receipt: result.Receipt,
		Events:  newEventResponses(result.Events),
	}
	status := http.StatusOK
	if !result.Receipt.Succeeded() {
		resp.Error = result.Receipt.RevertReason
		status = statusFor(result.Receipt.Err)
		if status == http.StatusInternalServerError && result.Receipt.Err == nil {
			status = http.StatusBadRequest
		}
	}
	s.logger.Debug("relayed transaction",
		"hash", result.Receipt.TxHash.Hex(),
		"from", tx.From.Hex(),
		"sponsored", tx.Sponsored(),
		"status", result.Receipt.Status,
	)
	writeJSON(w, status, resp)
}

