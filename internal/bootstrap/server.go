package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/api"
	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/observability"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

// Run starts the HTTP server and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc quotation.QuotationUseCase, checks map[string]api.Pinger, logger *zap.Logger) error {
	// WriteTimeout must cover a whole synchronous generation.
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, svc, checks, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg *config.Config, svc quotation.QuotationUseCase, checks map[string]api.Pinger, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), observability.GinMiddleware(logger))
	router.MaxMultipartMemory = int64(cfg.HTTP.MaxUploadMB) << 20

	api.NewHealthHandler(checks).Register(router)

	v1 := router.Group("/api/v1")
	api.NewQuotationHandler(svc).Register(v1.Group("/quotations"))
	api.NewJobHandler(svc).Register(v1.Group("/quotation-jobs"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c.Writer, "/swagger/quotations.swagger.json")
		})
	}

	return router
}

func renderSwaggerUI(w http.ResponseWriter, jsonURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>Quotation API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, jsonURL)

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
