/*
file: go-redis-server/internal/server/server.go
*/
package server

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/akashmaji946/go-redis-server/internal/command"
	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/replication"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

const banner = `
   ____  ____    ____          _ _
  / ___||  _ \  |  _ \ ___  __| (_)___
 | |  _ | | | | | |_) / _ \/ _  | / __|
 | |_| || |_| | |  _ <  __/ (_| | \__ \
  \____||____/  |_| \_\___|\__,_|_|___/
`

// Config is the startup configuration the CLI layer (cmd/go-redis) parses
// and hands to New, per spec.md §6.
type Config struct {
	Port          int
	ReplicaOf     string // "host port", empty means this node is a primary
	ListeningPort string // advertised to a primary via REPLCONF listening-port
	Dir           string // data directory for the gob RDB snapshot file
}

// Server owns the keyspace, the command registry and the replication
// engine, and drives the accept loop — no cyclic references back into
// individual connections (spec.md §9).
type Server struct {
	cfg   Config
	log   *logging.Logger
	store *store.Store
	reg   *command.Registry
	repl  *replication.Engine

	listener net.Listener
	wg       sync.WaitGroup
	stop     chan struct{}
}

func New(cfg Config, log *logging.Logger) *Server {
	s := store.New()
	if cfg.Dir != "" {
		if err := s.LoadFromFile(cfg.Dir); err != nil {
			log.Warnf("startup: could not load %s/%s: %v", cfg.Dir, store.DumpFileName, err)
		}
	}
	role := replication.RolePrimary
	if cfg.ReplicaOf != "" {
		role = replication.RoleReplica
	}
	return &Server{
		cfg:   cfg,
		log:   log,
		store: s,
		reg:   command.NewDefaultRegistry(),
		repl:  replication.New(role, s, log),
		stop:  make(chan struct{}),
	}
}

// Run binds the listener, starts a replica handshake supervisor if
// configured, and blocks in the accept loop until a shutdown signal is
// received. It returns a non-zero-exit-worthy error only on bind failure
// (spec.md §7 "Local I/O failures at startup (bind) → fatal") or a
// ReplicaOf value that is not "host port".
func (s *Server) Run() error {
	fmt.Println(banner)

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: listen on port %d: %w", s.cfg.Port, err)
	}
	s.listener = ln
	s.log.Infof("listening on 127.0.0.1:%d", s.cfg.Port)

	if s.cfg.ReplicaOf != "" {
		host, port, ok := strings.Cut(s.cfg.ReplicaOf, " ")
		if !ok {
			return fmt.Errorf("server: malformed --replicaof %q, want \"host port\"", s.cfg.ReplicaOf)
		}
		go replication.Supervise(s.repl, host+":"+port, s.cfg.ListeningPort, s.applyReplicated, s.log, s.stop)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		s.log.Infof("shutdown signal received, closing listener")
		close(s.stop)
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.log.Infof("accept loop stopping: %v", err)
			break
		}
		s.log.Infof("accepted connection from %s", conn.RemoteAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c := &connection{conn: conn, store: s.store, reg: s.reg, repl: s.repl, log: s.log}
			c.serve()
		}()
	}

	s.wg.Wait()

	if s.cfg.Dir != "" {
		if err := s.store.SaveToFile(s.cfg.Dir); err != nil {
			s.log.Errorf("shutdown: snapshot save failed: %v", err)
		} else {
			s.log.Infof("shutdown: snapshot saved to %s/%s", s.cfg.Dir, store.DumpFileName)
		}
	}

	s.log.Infof("graceful shutdown complete")
	return nil
}

// applyReplicated is the ApplyFunc wired into replication.Supervise: it
// dispatches a frame received from the primary exactly like a client
// command, marked IsReplicaLink so it is never re-propagated further.
func (s *Server) applyReplicated(frame resp.Value) {
	name, args, ok := frame.Command()
	if !ok {
		return
	}
	ctx := &command.Context{Store: s.store, Replication: s.repl, IsReplicaLink: true}
	s.reg.Dispatch(ctx, name, args, nil)
}
