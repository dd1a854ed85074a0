// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/log"
)

var (
	networkFlag = cli.StringFlag{
		Name:  "network",
		Value: "dev",
		Usage: "the network to run (dev) or the path to a genesis yaml file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep ledger data on disk, in memory otherwise",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the account cache",
		Value: 512,
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of receipts returned by /transactions/receipts",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.IntFlag{
		Name:  "api-slow-queries-threshold",
		Usage: "requests slower than this many milliseconds are logged, 0 disables",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	// inspect and transaction flags
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "dump the decoded structure instead of JSON",
	}
	payerFlag = cli.StringFlag{
		Name:  "payer",
		Usage: "account paying rent for created accounts, defaults to the signer",
	}
	authorityFlag = cli.StringFlag{
		Name:  "authority",
		Usage: "pool authority",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "staker account",
	}
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Usage: "mint of the staked token",
	}
	rateFlag = cli.Uint64Flag{
		Name:  "rate",
		Usage: "reward rate, scaled by 1e9 per token per second",
	}
	lockFlag = cli.Int64Flag{
		Name:  "lock",
		Usage: "minimum lock period in seconds",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "token amount",
	}
)
