package codex

import (
	"context"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codex/protocol"
)

// AutoApprove answers command and file change approval requests with
// decision. Register it for both approval methods.
func AutoApprove(decision protocol.ApprovalDecision) RequestHandler {
	return RequestHandlerFunc(func(_ context.Context, req *ServerRequest) (any, error) {
		switch req.Method {
		case protocol.MethodCommandExecutionRequestApproval:
			return protocol.CommandExecutionRequestApprovalResponse{
				Decision: protocol.CommandExecutionApprovalDecision{Decision: decision},
			}, nil
		case protocol.MethodFileChangeRequestApproval:
			return protocol.FileChangeRequestApprovalResponse{Decision: decision}, nil
		default:
			return nil, jsonrpc.NewRPCError(jsonrpc.CodeMethodNotFound, "unsupported approval request: "+req.Method)
		}
	})
}

// AutoDecline declines every approval request.
func AutoDecline() RequestHandler {
	return AutoApprove(protocol.DecisionDecline)
}

// WithApprovals registers h for both approval request methods.
func WithApprovals(h RequestHandler) Option {
	return func(c *Client) {
		WithRequestHandler(protocol.MethodCommandExecutionRequestApproval, h)(c)
		WithRequestHandler(protocol.MethodFileChangeRequestApproval, h)(c)
	}
}
