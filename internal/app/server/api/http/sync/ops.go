package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-push",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/push",
		Summary:     "Apply a batch of client actions",
		Description: "Applies outbox actions idempotently and returns one result per action",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
		Security:    []map[string][]string{{"bearer": {}}},
	}
}

func (h *Handler) pullOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-pull",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/pull",
		Summary:     "Fetch server-side changes",
		Description: "Returns every row changed at or after the given watermark",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
		Security:    []map[string][]string{{"bearer": {}}},
	}
}
