package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"xdao.co/edsig/config"
	"xdao.co/edsig/contract"
	"xdao.co/edsig/host"
	"xdao.co/edsig/host/grpchost"
	"xdao.co/edsig/internal/logging"
	"xdao.co/edsig/ledger"
	"xdao.co/edsig/storage/casregistry"
	"xdao.co/edsig/storage/grpccas"

	_ "xdao.co/edsig/storage/ipfs"
	_ "xdao.co/edsig/storage/localfs"
	_ "xdao.co/edsig/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("edsig-hostd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "YAML/JSON config file (default: in-memory, strict)")
	listen := fs.String("listen", "", "Listen address (overrides config)")
	policy := fs.String("policy", "", "Verification policy strict|relaxed (overrides config)")
	importPath := fs.String("import", "", "Snapshot bundle to restore before serving (overrides config)")
	exportPath := fs.String("export-on-exit", "", "Write all instances to this bundle on shutdown (overrides config)")
	listBackends := fs.Bool("list-backends", false, "List supported CAS backends and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(errOut, err)
			return 2
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *policy != "" {
		cfg.Policy = *policy
	}
	if *importPath != "" {
		cfg.Archive.Import = *importPath
	}
	if *exportPath != "" {
		cfg.Archive.ExportOnExit = *exportPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	log, err := logging.NewLogger(logging.LogOptions{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: errOut})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Error(err, "listen failed", "addr", cfg.Listen)
		return 1
	}
	if err := serve(ctx, cfg, lis, log); err != nil {
		log.Error(err, "server stopped")
		return 1
	}
	return 0
}

// serve wires storage, the contract and the gRPC services, then blocks until
// ctx is done or the server fails. It owns lis and closes it on every path.
func serve(ctx context.Context, cfg config.Config, lis net.Listener, log *logging.Logger) error {
	defer lis.Close()

	opts, err := cfg.ProgramOptions()
	if err != nil {
		return err
	}
	program, err := contract.NewProgram(opts)
	if err != nil {
		return err
	}

	cas, closeCAS, err := cfg.CAS.Open(casregistry.UsageDaemon, "")
	if err != nil {
		return fmt.Errorf("open cas: %w", err)
	}
	if closeCAS != nil {
		defer closeCAS()
	}
	heads, err := openHeads(cfg.Heads)
	if err != nil {
		return err
	}
	store := ledger.NewStore(cas, heads)
	defer store.Close()

	if cfg.Archive.Import != "" {
		ids, err := importArchive(store, cfg.Archive.Import)
		if err != nil {
			return err
		}
		log.Info("imported instances", "path", cfg.Archive.Import, "count", len(ids))
	}

	s := program.Default()
	log.Info("self test", "policy", program.Mode().String(), "ok", program.VerificationTest(&s))

	srv := grpc.NewServer()
	grpchost.RegisterHostServer(srv, &grpchost.Server{Host: host.New(program, store, host.WithLogger(log))})
	if cfg.ServeCAS {
		grpccas.RegisterCASServer(srv, &grpccas.Server{CAS: cas})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()
	log.Info("listening", "addr", lis.Addr().String(), "heads", cfg.Heads.Backend, "serve_cas", cfg.ServeCAS)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		srv.GracefulStop()
		<-errCh
		if p := cfg.Archive.ExportOnExit; p != "" {
			if err := exportArchive(store, p); err != nil {
				return err
			}
			log.Info("exported instances", "path", p)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func importArchive(store *ledger.Store, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return store.Import(f)
}

func exportArchive(store *ledger.Store, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := store.Export(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func openHeads(h config.Heads) (ledger.Heads, error) {
	switch h.Backend {
	case config.HeadsLevelDB:
		heads, err := ledger.OpenLevelDBHeads(h.Dir)
		if err != nil {
			return nil, err
		}
		return heads, nil
	default:
		return ledger.NewMemoryHeads(), nil
	}
}
