// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/arkive-net/arkive/api"
	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/kv"
	"github.com/arkive-net/arkive/ledger"
	"github.com/arkive-net/arkive/log"
	"github.com/arkive-net/arkive/lvldb"
	"github.com/arkive-net/arkive/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

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
		Name:      "Arkive",
		Usage:     "Stake ledger for the Arkive archival network",
		Copyright: "2025 The Arkive developers",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableMetricsFlag,
			enableAPILogsFlag,
			arbiterFlag,
			memFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	arbiterStr := ctx.String(arbiterFlag.Name)
	if arbiterStr == "" {
		fatalf("the -%s flag is required", arbiterFlag.Name)
	}
	arbiter, err := arkive.ParseAddress(arbiterStr)
	if err != nil {
		fatalf("parse -%s: %v", arbiterFlag.Name, err)
	}

	var mainDB *lvldb.LevelDB
	var instanceDir string
	if ctx.Bool(memFlag.Name) {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
	} else {
		instanceDir = makeDataDir(ctx)
		mainDB = openMainDB(instanceDir)
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	// separate keyspaces keep the payout book auditable next to ledger state
	payouts := bank.New(kv.Bucket("bank/").NewStore(mainDB))
	ldgr := ledger.New(
		kv.Bucket("ledger/").NewStore(mainDB),
		payouts,
		ledger.NewSoleArbiter(*arbiter),
		clockwork.NewRealClock(),
		ledger.DefaultConfig(),
	)

	apiHandler := api.New(ldgr, payouts, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
	})
	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(instanceDir, apiURL, *arbiter)

	exitSignal := handleExitSignal()
	<-exitSignal.Done()
	return nil
}

func printStartupMessage(dataDir string, apiURL string, arbiter arkive.Address) {
	fmt.Printf(`Starting %v
    Version     %v
    Data dir    %v
    API portal  %v
    Arbiter     %v
`,
		"Arkive",
		fullVersion(),
		dataDir,
		apiURL,
		arbiter,
	)
}
