package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SwarmMessage is the JSON-RPC 2.0 envelope every swarm communication
// uses. Every message carries an Ed25519 signature over the canonical
// JSON of {method, params}; verifying that signature is delegated to
// the narrow Verifier interface, not performed by this package.
type SwarmMessage struct {
	JSONRPC   string          `json:"jsonrpc"`
	Method    string          `json:"method"`
	ID        *string         `json:"id,omitempty"`
	Params    json.RawMessage `json:"params"`
	Signature string          `json:"signature"`
}

// NewSwarmMessage builds a SwarmMessage for method with params already
// marshaled to JSON and a signature computed over SigningPayload.
func NewSwarmMessage(method string, params json.RawMessage, signature string) SwarmMessage {
	id := uuid.NewString()
	return SwarmMessage{
		JSONRPC:   JSONRPCVersion,
		Method:    method,
		ID:        &id,
		Params:    params,
		Signature: signature,
	}
}

// SigningPayload returns the canonical bytes signed over a message:
// JSON-encoded {"method": method, "params": params}. params is embedded
// as given: encoding/json compacts its whitespace but does not reorder
// its keys. The payload is therefore canonical when params was itself
// produced by encoding/json, which keeps declared struct field order
// and sorts map keys.
func SigningPayload(method string, params json.RawMessage) ([]byte, error) {
	envelope := struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}{Method: method, Params: params}
	return json.Marshal(envelope)
}

// SwarmResponse is the JSON-RPC 2.0 response envelope.
type SwarmResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *string         `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RpcError       `json:"error,omitempty"`
}

// RpcError is a JSON-RPC 2.0 error object.
type RpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewSuccessResponse builds a successful SwarmResponse.
func NewSuccessResponse(id *string, result json.RawMessage) SwarmResponse {
	return SwarmResponse{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

// NewErrorResponse builds a failed SwarmResponse.
func NewErrorResponse(id *string, code int, message string) SwarmResponse {
	return SwarmResponse{JSONRPC: JSONRPCVersion, ID: id, Error: &RpcError{Code: code, Message: message}}
}

// ProtocolMethod enumerates every JSON-RPC method name this protocol
// recognizes, for exhaustive dispatch in the orchestrator.
type ProtocolMethod int

const (
	MethodHandshake ProtocolMethod = iota
	MethodCandidacy
	MethodElectionVote
	MethodTierAssignment
	MethodTaskInjection
	MethodProposalCommit
	MethodProposalReveal
	MethodConsensusVote
	MethodTaskAssignment
	MethodResultSubmission
	MethodVerificationResult
	MethodKeepAlive
	MethodSuccession
)

// AsStr returns the wire string for a ProtocolMethod.
func (m ProtocolMethod) AsStr() string {
	switch m {
	case MethodHandshake:
		return "swarm.handshake"
	case MethodCandidacy:
		return "election.candidacy"
	case MethodElectionVote:
		return "election.vote"
	case MethodTierAssignment:
		return "hierarchy.assign_tier"
	case MethodTaskInjection:
		return "task.inject"
	case MethodProposalCommit:
		return "consensus.proposal_commit"
	case MethodProposalReveal:
		return "consensus.proposal_reveal"
	case MethodConsensusVote:
		return "consensus.vote"
	case MethodTaskAssignment:
		return "task.assign"
	case MethodResultSubmission:
		return "task.submit_result"
	case MethodVerificationResult:
		return "task.verification"
	case MethodKeepAlive:
		return "swarm.keepalive"
	case MethodSuccession:
		return "hierarchy.succession"
	default:
		return "unknown"
	}
}

// MethodFromStr parses a wire method string back into a ProtocolMethod.
func MethodFromStr(s string) (ProtocolMethod, error) {
	switch s {
	case "swarm.handshake":
		return MethodHandshake, nil
	case "election.candidacy":
		return MethodCandidacy, nil
	case "election.vote":
		return MethodElectionVote, nil
	case "hierarchy.assign_tier":
		return MethodTierAssignment, nil
	case "task.inject":
		return MethodTaskInjection, nil
	case "consensus.proposal_commit":
		return MethodProposalCommit, nil
	case "consensus.proposal_reveal":
		return MethodProposalReveal, nil
	case "consensus.vote":
		return MethodConsensusVote, nil
	case "task.assign":
		return MethodTaskAssignment, nil
	case "task.submit_result":
		return MethodResultSubmission, nil
	case "task.verification":
		return MethodVerificationResult, nil
	case "swarm.keepalive":
		return MethodKeepAlive, nil
	case "hierarchy.succession":
		return MethodSuccession, nil
	default:
		return 0, fmt.Errorf("unknown protocol method: %s", s)
	}
}

// Topics builds the GossipSub-style topic names used by the transport
// layer, all namespaced under TopicPrefix.
type Topics struct{}

func (Topics) ElectionTier1() string {
	return TopicPrefix + "/election/tier1"
}

func (Topics) Proposals(taskID string) string {
	return fmt.Sprintf("%s/proposals/%s", TopicPrefix, taskID)
}

func (Topics) Voting(taskID string) string {
	return fmt.Sprintf("%s/voting/%s", TopicPrefix, taskID)
}

func (Topics) Tasks(tier uint32) string {
	return fmt.Sprintf("%s/tasks/tier%d", TopicPrefix, tier)
}

func (Topics) Results(taskID string) string {
	return fmt.Sprintf("%s/results/%s", TopicPrefix, taskID)
}

func (Topics) KeepAlive() string {
	return TopicPrefix + "/keepalive"
}

func (Topics) Hierarchy() string {
	return TopicPrefix + "/hierarchy"
}
