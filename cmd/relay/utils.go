// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/eventdb"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
)

// clock offsets above this are reported, since claims are time gated.
const maxClockOffset = 10 * time.Second

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(lvl))

	log.SetDefault(log.NewLogger(newLogHandler(os.Stdout, &level, ctx.Bool(jsonLogsFlag.Name))))
	return nil
}

func newLogHandler(output io.Writer, level *slog.LevelVar, json bool) slog.Handler {
	if json {
		return log.JSONHandlerWithLevel(output, level)
	}
	useColor := false
	if f, ok := output.(*os.File); ok {
		useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
	}
	return log.NewTerminalHandlerWithLevel(output, level, useColor)
}

func loadConfig(ctx *cli.Context) (relay.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return relay.DefaultConfig(), nil
	}
	cfg, err := relay.LoadConfig(path)
	if err != nil {
		return relay.Config{}, errors.Wrapf(err, "load config [%v]", path)
	}
	return cfg, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, error) {
	if ctx.Bool(devFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		return db, nil
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	fdCache, err := suggestFDCache()
	if err != nil {
		return nil, err
	}
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120, nil
	}
	return n, nil
}

func openEventDB(ctx *cli.Context, dataDir string) (*eventdb.EventDB, error) {
	if ctx.Bool(devFlag.Name) {
		db, err := eventdb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open event database")
		}
		return db, nil
	}
	dir := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", dir)
	}
	return db, nil
}

// initGenesis stores the genesis superblock on a fresh store and returns the best superblock.
func initGenesis(eng *engine.Engine) (relay.Bytes32, error) {
	best, err := eng.Best()
	if err != nil {
		return relay.Bytes32{}, errors.Wrap(err, "get best superblock")
	}
	if !best.IsZero() {
		return best, nil
	}
	id, err := eng.Initialize(superblocks.DefaultGenesis())
	if err != nil {
		return relay.Bytes32{}, errors.Wrap(err, "initialize genesis")
	}
	logger.Info("genesis superblock initialized", "id", id)
	return id, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.relay")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.relay")
		}
		return filepath.Join(home, ".org.vechain.relay")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
