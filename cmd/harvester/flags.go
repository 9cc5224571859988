// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	addrFlag = cli.StringFlag{
		Name:  "addr",
		Value: ":8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "*",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "serve prometheus metrics on /metrics",
	}
	blockIntervalFlag = cli.IntFlag{
		Name:  "block-interval",
		Value: 1,
		Usage: "seconds between two consecutive blocks",
	}
	settleIntervalFlag = cli.IntFlag{
		Name:  "settle-interval",
		Value: 10,
		Usage: "blocks between two automatic mass settlements",
	}
	startBlockFlag = cli.UintFlag{
		Name:  "start-block",
		Value: 1,
		Usage: "first block of the emission window",
	}
	baseRateFlag = cli.StringFlag{
		Name:  "base-rate",
		Usage: "per-block emission rate of the first period (default: reference deployment)",
	}
	periodsFlag = cli.UintFlag{
		Name:  "periods",
		Usage: "number of decaying emission periods (default: reference deployment)",
	}
	periodLengthFlag = cli.UintFlag{
		Name:  "period-length",
		Usage: "blocks per emission period (default: reference deployment)",
	}
)
