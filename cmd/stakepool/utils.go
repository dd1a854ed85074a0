// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/pubkey"
)

const (
	ntpServer          = "pool.ntp.org"
	clockCheckInterval = 10 * time.Minute
	// staking times are in whole seconds
	maxClockOffset = time.Second
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakepool")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.stakepool")
		default:
			return filepath.Join(home, ".org.vechain.stakepool")
		}
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

func waitExitSignal() {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(exitSignalCh)
	<-exitSignalCh
}

func devGenesisID() pubkey.Key {
	return genesis.NewDevnet().ID()
}

// watchClockOffset periodically compares the local clock with NTP until ctx
// is done. Every staking operation is stamped with the local clock.
func watchClockOffset(ctx context.Context, h *health.Health) {
	ticker := time.NewTicker(clockCheckInterval)
	defer ticker.Stop()

	for {
		checkClockOffset(h)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkClockOffset(h *health.Health) {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	synced := offset <= maxClockOffset
	if !synced {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
	h.ClockSyncStatus(synced)
}

// keyArg parses the i-th positional argument as a key.
func keyArg(ctx *cli.Context, i int, name string) (pubkey.Key, error) {
	if ctx.NArg() <= i {
		return pubkey.Key{}, errors.Errorf("missing argument <%s>", name)
	}
	key, err := pubkey.ParseKey(ctx.Args().Get(i))
	if err != nil {
		return pubkey.Key{}, errors.WithMessage(err, name)
	}
	return key, nil
}

// keyFlag parses the named flag as a key. An unset flag falls back to def
// when given.
func keyFlag(ctx *cli.Context, name string, def ...pubkey.Key) (pubkey.Key, error) {
	value := ctx.String(name)
	if value == "" {
		if len(def) > 0 {
			return def[0], nil
		}
		return pubkey.Key{}, errors.Errorf("flag --%s required", name)
	}
	key, err := pubkey.ParseKey(value)
	if err != nil {
		return pubkey.Key{}, errors.WithMessage(err, name)
	}
	return key, nil
}
