// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sync/atomic"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/cmd/stakepool/httpserver"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/token"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	level := new(slog.LevelVar)
	level.Set(lvl)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	network := ctx.String(networkFlag.Name)
	switch network {
	case "", "dev":
		return genesis.NewDevnet()
	default:
		gene, err := genesis.LoadCustomNet(network)
		if err != nil {
			fatal(fmt.Sprintf("load genesis file: %v", err))
		}
		return gene
	}
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, instanceDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
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

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(instanceDir string) *logdb.LogDB {
	dir := filepath.Join(instanceDir, "receipts.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// initRuntime builds genesis into mainDB and returns a runtime hosting the
// system, token and staking programs.
func initRuntime(ctx *cli.Context, gene *genesis.Genesis, mainDB *lvldb.LevelDB, receipts runtime.ReceiptWriter) *runtime.Runtime {
	stater := ledger.NewStater(mainDB, normalizeCacheSize(ctx.Int(cacheFlag.Name))/2)
	if err := gene.Build(mainDB, stater); err != nil {
		fatal("build genesis: ", err)
	}
	return runtime.New(stater, sysvar.SystemClock{}, gene.Rent(),
		system.Program(),
		token.Program(),
		token.AssociatedProgram(),
		staking.Program(),
	).SetReceiptWriter(receipts)
}

func startAPIServer(ctx *cli.Context, rt *runtime.Runtime, logDB *logdb.LogDB, gene *genesis.Genesis, h *health.Health) (string, func()) {
	var enableLogs atomic.Bool
	enableLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(rt, logDB, gene.ID(), api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      &enableLogs,
		SlowQueriesThreshold: time.Duration(ctx.Int(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		Health:               h,
	})

	url, stop, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		http.Handler(handler),
		time.Duration(ctx.Int(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		fatal(err)
	}
	return url, stop
}

func startMetricsServer(ctx *cli.Context) (string, func()) {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return "", func() {}
	}
	url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
	if err != nil {
		fatal(err)
	}
	return url, stop
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func printStartupMessage(
	gene *genesis.Genesis,
	instanceDir string,
	apiURL string,
	metricsURL string,
) {
	if metricsURL == "" {
		metricsURL = "disabled"
	}
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Staking      [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		fmt.Sprintf("Stakepool/v%s/%s/%s", fullVersion(), goruntime.GOOS, goruntime.Version()),
		gene.ID(), gene.Name(),
		staking.ProgramID,
		instanceDir,
		apiURL,
		metricsURL)
}

func printDevKeys() {
	tableHead := `
┌────────────────────────────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                                Key                                 │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	info := fmt.Sprintf("Dev mint [ %v ]", genesis.DevMint)
	info += tableHead
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Key,
			hexutil.Encode(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
