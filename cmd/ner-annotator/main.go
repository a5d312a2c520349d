package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/annotation"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var config annotatorConfig

func initConfig() {
	if err := lib.InitializeConfig(defaultConfigPath, defaultConfig, &config); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
}

func main() {
	initConfig()

	log.Info().
		Str("backend", string(config.Model.Backend)).
		Str("path", config.Model.Path).
		Msg("loading model")
	predictor, err := model.New(config.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load model")
	}

	if viper.GetBool(lib.LoadAndExitFlag) {
		if err := predictor.Close(); err != nil {
			log.Fatal().Err(err).Send()
		}
		log.Info().Msg("model loaded, exiting")
		return
	}

	s, err := newServer(config, predictor, metrics.New())
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(config.Server.CorsAllowedOrigins)
	s.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.HttpPort),
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if err := run(srv, predictor); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("shut down")
}

// run serves until interrupted or until the listener fails, then shuts the server
// down and closes the model. A listener failure is returned.
func run(srv *http.Server, predictor model.Predictor) error {
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
		cancel()
	}()

	lib.HandleInterrupt(ctx, func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	})

	if err := predictor.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close model")
	}
	return <-serveErr
}

func newServer(conf annotatorConfig, predictor model.Predictor, m *metrics.Metrics) (server, error) {
	languages, err := language.New(conf.Annotator.SupportedLanguages)
	if err != nil {
		return server{}, err
	}

	gateway := annotation.NewGateway(predictor, conf.Model.MaxConcurrentInferences, m)
	annotator, err := annotation.NewAnnotator(gateway, annotation.Options{
		BatchSize: conf.Model.BatchSize,
		Timeout:   conf.Model.Timeout,
		Metrics:   m,
	})
	if err != nil {
		return server{}, err
	}

	return server{
		controller: controller{
			annotator:          annotator,
			languages:          languages,
			strictLanguage:     conf.Annotator.StrictLanguage,
			documentation:      newDocumentation(conf, languages.Languages()),
			communicationLayer: conf.Annotator.CommunicationLayer,
		},
		metrics:        m,
		maxPayloadSize: conf.Server.MaxPayloadSize,
	}, nil
}
