package sync

import "pontosync/internal/domain/sync"

type pushInput struct {
	Body sync.PushRequest
}

type pushOutput struct {
	Body sync.PushResponse
}

type pullInput struct {
	// Since is the client watermark; unparsable or missing values mean
	// "everything" (zero time).
	Since string `query:"since" doc:"RFC3339 watermark; rows changed at or after it are returned"`
}

type pullOutput struct {
	Body sync.PullResponse
}
