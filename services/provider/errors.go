package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapildev5262/Token-World/types"
)

// EIP-1193 and EIP-3085 provider error codes
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeUnrecognizedChain = 4902
)

// RPCError is an error object returned by a wallet JSON-RPC endpoint
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

// mapRPCError turns provider error codes into the core error taxonomy
func mapRPCError(err *RPCError) error {
	switch {
	case err.Code == CodeUnrecognizedChain,
		strings.Contains(strings.ToLower(err.Message), "unrecognized chain"):
		return types.ErrUnrecognizedChain.Wrap(err)
	case err.Code == CodeUserRejected:
		return types.ErrUserRejected.Wrap(err)
	case err.Code == CodeUnauthorized, err.Code == CodeDisconnected:
		return types.ErrNotConnected.Wrap(err)
	default:
		return err
	}
}
