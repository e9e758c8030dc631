package http

import (
	stdhttp "net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// registerProfiling mounts the pprof handlers on g.
func registerProfiling(g *echo.Group) {
	g.GET("/", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}
