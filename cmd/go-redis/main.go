/*
file: go-redis-server/cmd/go-redis/main.go
*/

// Command go-redis is the CLI entrypoint: parse flags, wire a
// server.Server, run it until a shutdown signal arrives (spec.md §6).
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/server"
	"github.com/urfave/cli/v2"
)

// extractReplicaOf pulls the two positional tokens that follow
// --replicaof out of argv before urfave/cli ever sees them. Redis's own
// CLI takes "--replicaof <host> <port>" as two separate arguments rather
// than one flag value, which urfave/cli (one token per flag) can't express
// directly, so this mirrors the teacher's own hand-rolled flag pass in
// spirit: a small pre-pass ahead of the real flag parser.
func extractReplicaOf(argv []string) (rest []string, host, port string, err error) {
	rest = make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		if argv[i] != "--replicaof" {
			rest = append(rest, argv[i])
			continue
		}
		if i+2 >= len(argv) {
			return nil, "", "", fmt.Errorf("--replicaof requires a host and a port")
		}
		host, port = argv[i+1], argv[i+2]
		i += 2
	}
	return rest, host, port, nil
}

func main() {
	argv, replicaHost, replicaPort, err := extractReplicaOf(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New()
	var cfg server.Config

	app := &cli.App{
		Name:  "go-redis",
		Usage: "a Redis-compatible in-memory key-value server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Value: 6379,
				Usage: "TCP port to listen on",
			},
			&cli.StringFlag{
				Name:  "dir",
				Value: "./data",
				Usage: "directory holding the RDB snapshot file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg.Port = c.Int("port")
			cfg.Dir = c.String("dir")
			if replicaHost != "" {
				if _, perr := strconv.Atoi(replicaPort); perr != nil {
					return fmt.Errorf("--replicaof: invalid port %q", replicaPort)
				}
				cfg.ReplicaOf = replicaHost + " " + replicaPort
				cfg.ListeningPort = strconv.Itoa(cfg.Port)
			}
			return server.New(cfg, log).Run()
		},
	}

	if err := app.Run(append([]string{"go-redis"}, argv...)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
