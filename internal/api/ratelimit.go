package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
)

// exportRateLimit throttles rendering routes per client IP.
func (s *Server) exportRateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.exportLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	ok, wait := s.exportLimiter.Check(key)
	if !ok {
		s.logger.Warn("export rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		if wait > 0 {
			ctx.SetHeader("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many export requests",
			domainerrors.RateLimited("too many export requests, try again later"))
		return
	}

	next(ctx)
}
