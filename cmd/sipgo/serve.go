package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/sipgo/internal/advisor"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/funds"
	"github.com/rgehrsitz/sipgo/internal/logger"
	"github.com/rgehrsitz/sipgo/internal/profile"
	"github.com/rgehrsitz/sipgo/internal/risk"
	"github.com/rgehrsitz/sipgo/internal/server"
	"github.com/rgehrsitz/sipgo/pkg/mfapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Serve the calculator, the quiz, the fund catalogue and the advisor over HTTP.
Settings come from the environment and an optional .env file (PORT, LOG_LEVEL,
PROFILE_STORE, OPENROUTER_API_KEY, MFAPI_BASE_URL, ...).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadAppConfig()
		if flagBool(cmd, "debug") {
			cfg.LogLevel = "debug"
		}
		logger.Init(cfg.LogLevel, cfg.LogFormat)

		if path, _ := cmd.Flags().GetString("risk-model"); path != "" {
			cfg.RiskModelPath = path
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		model, err := config.LoadRiskModel(cfg.RiskModelPath)
		if err != nil {
			return err
		}
		classifier, err := risk.NewClassifier(model)
		if err != nil {
			return err
		}
		logger.L.Info("risk model loaded", "version", model.Version, "questions", len(model.Questions))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := profile.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.L.Info("profile store opened", "backend", cfg.ProfileStore)

		engine := newEngine(cmd, model)
		engine.SetLogger(logger.NewAdapter(nil))
		cmp := compare.NewCompareEngine(engine)
		cmp.ProfileRisks = model.ProfileRisks()
		cmp.Descriptions = model.Descriptions

		navs := funds.NewNAVService(mfapi.NewClient(cfg.MFAPIBaseURL), cfg.NAVCacheTTL)
		navs.Logger = logger.NewAdapter(nil)

		var completer advisor.Completer
		if cfg.AdvisorEnabled() {
			completer = advisor.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.AdvisorTimeout)
		} else {
			logger.L.Warn("OPENROUTER_API_KEY is not set, advisor endpoints will return 503")
		}

		srv := server.New(server.Deps{
			Engine:        engine,
			Classifier:    classifier,
			Compare:       cmp,
			Store:         store,
			Catalog:       funds.NewCatalog(model),
			NAVs:          navs,
			Advisor:       advisor.New(completer, classifier),
			RatePerMinute: cfg.AdvisorRatePerMinute,
		})
		return srv.ListenAndServe(ctx, ":"+cfg.Port)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (default $PORT or 8080)")
}
