package statechart

import (
	"context"
	"log/slog"

	"github.com/comalice/statechart/logging"
)

const levelTrace = logging.LevelTrace

// logLazy builds the message only when level is enabled.
func (c *Chart[C]) logLazy(level slog.Level, n *node[C], msg func() string) {
	ctx := context.Background()
	if !c.logger.Enabled(ctx, level) {
		return
	}
	c.logger.Log(ctx, level, msg(), "chart", c.name, "path", n.path)
}
