package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/studiokawa/proofroom/internal/config"
	"github.com/studiokawa/proofroom/internal/infra/cache"
	"github.com/studiokawa/proofroom/internal/infra/database"
	"github.com/studiokawa/proofroom/internal/infra/objectstore"
	"github.com/studiokawa/proofroom/internal/infra/repository"
	"github.com/studiokawa/proofroom/internal/media"
	"github.com/studiokawa/proofroom/internal/present/rest"
	"github.com/studiokawa/proofroom/internal/present/rest/middleware"
	"github.com/studiokawa/proofroom/internal/service"
	"github.com/studiokawa/proofroom/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		cleanup, err := setupTracer(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	var proofCache usecase.ProofCache
	switch conf.Cache.Backend {
	case "memcached":
		mc := database.NewMemcached(conf.Cache.MemcachedAddr)
		proofCache = cache.NewMemcachedProofCache(mc)
	default:
		proofCache = cache.NewInMemoryProofCache()
	}

	objects, err := objectstore.NewGCSStore(
		ctx, conf.Storage.Bucket, conf.Storage.CredentialsFile, conf.Storage.PublicBaseURL)
	if err != nil {
		slog.Error("failed to open object store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer objects.Close()

	galleryRepo := repository.NewGalleryRepository(db)
	proofRepo := repository.NewProofRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	signal := service.NewSignalService(rdb)
	access := service.NewAccessService()
	thumbs := media.NewWebPThumbnailer()

	uploadEngine := usecase.NewUploadEngine(
		objects, galleryRepo, proofRepo, activityRepo, proofCache, signal, thumbs)
	reviewEngine := usecase.NewReviewEngine(
		proofRepo, activityRepo, proofCache, signal)
	galleryUsecase := usecase.NewGalleryUsecase(
		objects, galleryRepo, proofRepo, revisionRepo, activityRepo, proofCache, access)

	handler := rest.NewHandler(galleryUsecase, uploadEngine, reviewEngine, signal)
	identity := middleware.NewIdentityMiddleware()

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("proofroom"))
	}
	e.Use(identity.IdentifyIdentity)

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTracer(ctx context.Context, endpoint string) (func(), error) {
	opts := []otlptracehttp.Option{}
	if endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}
