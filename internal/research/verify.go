// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/content-engine/internal/httputil"
	"github.com/pdiddy/content-engine/pkg/types"
)

// VerifySources HEAD-checks each source URL and marks reachable ones.
// Models occasionally hallucinate or mangle citation URLs; a dead link is
// flagged on w but never fatal, the source stays in the result unverified.
func VerifySources(ctx context.Context, client *http.Client, sources []types.Source, cfg types.ResearchConfig, w io.Writer) []types.Source {
	for i, s := range sources {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.URL, nil)
		if err != nil {
			fmt.Fprintf(w, "warning: invalid source URL %s: %v\n", s.URL, err)
			continue
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
		if err != nil {
			fmt.Fprintf(w, "warning: source unreachable: %s: %v\n", s.URL, err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode < 400 {
			sources[i].Verified = true
		} else {
			fmt.Fprintf(w, "warning: source %s answered HTTP %d\n", s.URL, resp.StatusCode)
		}
	}
	return sources
}
