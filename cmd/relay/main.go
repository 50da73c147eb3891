// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/relay/api"
	"github.com/vechain/relay/api/subscriptions"
	"github.com/vechain/relay/cmd/relay/httpserver"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/keeper"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/metrics"
	"github.com/vechain/relay/relay"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Relay",
		Usage:     "Superblock claim manager",
		Copyright: fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			apiClaimCacheFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			keeperIntervalFlag,
			devFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset()
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	dataDir := "Memory"
	if !ctx.Bool(devFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
	}

	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := openEventDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	feed := subscriptions.NewFeed()
	eng, err := engine.New(mainDB, cfg, engine.Options{Sink: engine.Sinks{eventDB, feed}})
	if err != nil {
		return err
	}
	best, err := initGenesis(eng)
	if err != nil {
		return err
	}

	if interval := ctx.Duration(keeperIntervalFlag.Name); interval > 0 {
		k := keeper.New(eng, interval)
		k.Start()
		defer func() { logger.Info("stopping keeper..."); k.Stop() }()
	}

	apiHandler, apiCloser := api.New(eng, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		ClaimCacheSize:  ctx.Int(apiClaimCacheFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		AllowResolve:    ctx.Bool(devFlag.Name),
		Feed:            feed,
	})
	defer func() { logger.Info("closing subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(cfg, best, dataDir, apiURL, metricsURL, eventDB.DriverVersion())

	<-exitSignal.Done()
	return nil
}

func printStartupMessage(cfg relay.Config, best relay.Bytes32, dataDir, apiURL, metricsURL, sqliteVersion string) {
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	fmt.Printf(`Starting %v
    Battle reward [ %v wei ]
    Timeouts      [ proposal delay %vs, challenge %vs ]
    Confirmation  [ depth %v, max walk %v ]
    Best          [ %v ]
    Data dir      [ %v ]
    SQLite        [ %v ]
    API portal    [ %v ]
    Metrics       [ %v ]
`,
		"Relay/"+fullVersion(),
		cfg.BattleReward,
		cfg.ProposalDelay, cfg.ChallengeTimeout,
		cfg.ConfirmationDepth, cfg.MaxConfirmationWalk,
		best,
		dataDir,
		sqliteVersion,
		apiURL,
		metricsURL)
}
