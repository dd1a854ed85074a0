// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/lvldb"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "stakepool")
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
		Name:      "Stakepool",
		Usage:     "Token staking ledger with time based rewards",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			networkFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "dev-keys",
				Usage:  "print the pre-funded accounts of the dev network",
				Action: func(*cli.Context) error { printDevKeys(); return nil },
			},
			{
				Name:  "inspect",
				Usage: "read accounts from a persisted ledger",
				Subcommands: []cli.Command{
					{
						Name:      "pool",
						Usage:     "show the staking pool of a mint",
						ArgsUsage: "<mint>",
						Flags:     ledgerFlags(rawFlag),
						Action:    inspectPoolAction,
					},
					{
						Name:      "staker",
						Usage:     "show a staker's record in the pool of a mint",
						ArgsUsage: "<mint> <owner>",
						Flags:     ledgerFlags(rawFlag),
						Action:    inspectStakerAction,
					},
					{
						Name:      "account",
						Usage:     "show a raw account",
						ArgsUsage: "<key>",
						Flags:     ledgerFlags(rawFlag),
						Action:    inspectAccountAction,
					},
				},
			},
			{
				Name:  "tx",
				Usage: "execute a staking instruction against a persisted ledger",
				Subcommands: []cli.Command{
					{
						Name:   "create-pool",
						Usage:  "create the staking pool of a mint",
						Flags:  ledgerFlags(payerFlag, authorityFlag, mintFlag, rateFlag, lockFlag),
						Action: createPoolAction,
					},
					{
						Name:   "update-config",
						Usage:  "change the reward rate or lock period of a pool",
						Flags:  ledgerFlags(authorityFlag, mintFlag, rateFlag, lockFlag),
						Action: updateConfigAction,
					},
					{
						Name:   "create-user",
						Usage:  "create a staker's record in a pool",
						Flags:  ledgerFlags(payerFlag, ownerFlag, mintFlag),
						Action: createUserAction,
					},
					{
						Name:   "stake",
						Usage:  "stake tokens from the owner's associated token account",
						Flags:  ledgerFlags(ownerFlag, mintFlag, amountFlag),
						Action: stakeAction,
					},
					{
						Name:   "claim",
						Usage:  "claim accrued rewards",
						Flags:  ledgerFlags(ownerFlag, mintFlag),
						Action: claimAction,
					},
					{
						Name:   "unstake",
						Usage:  "withdraw the stake and accrued rewards",
						Flags:  ledgerFlags(ownerFlag, mintFlag),
						Action: unstakeAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	initMetrics(ctx)
	gene := selectGenesis(ctx)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
		logDB = openLogDB(instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	nodeHealth := health.New()
	rt := initRuntime(ctx, gene, mainDB, nodeHealth.Track(logDB))

	apiURL, stopAPI := startAPIServer(ctx, rt, logDB, gene, nodeHealth)
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	metricsURL, stopMetrics := startMetricsServer(ctx)
	defer func() { stopMetrics() }()

	printStartupMessage(gene, instanceDir, apiURL, metricsURL)
	if gene.ID() == devGenesisID() {
		printDevKeys()
	}

	var wg sync.WaitGroup
	wg.Go(func() { watchClockOffset(exitSignal, nodeHealth) })
	defer wg.Wait()

	<-exitSignal.Done()
	return nil
}

// handleExitSignal returns a context canceled on interrupt or termination.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		waitExitSignal()
		logger.Info("exit signal received")
		cancel()
	}()
	return ctx
}
