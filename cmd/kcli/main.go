// Command kcli is a thin demonstration client over the wire codec and
// connection multiplexer: it dials one seed broker and issues a single
// request per invocation. It is not a producer or consumer facade.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rizkyandriawan/kafkaclient/internal/audit"
	"github.com/rizkyandriawan/kafkaclient/internal/brokercache"
	"github.com/rizkyandriawan/kafkaclient/internal/config"
	"github.com/rizkyandriawan/kafkaclient/internal/conn"
	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
	"github.com/rizkyandriawan/kafkaclient/internal/retry"
	"github.com/rizkyandriawan/kafkaclient/internal/telemetry"
)

var (
	version = "0.1.0"
	commit  = "none"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "versions":
		runVersions(os.Args[2:])
	case "metadata":
		runMetadata(os.Args[2:])
	case "ping":
		runPing(os.Args[2:])
	case "version":
		fmt.Printf("kcli %s (%s)\n", version, commit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`kcli - demo client for the Kafka wire codec and connection multiplexer

Usage:
  kcli <command> [options]

Commands:
  versions  Request ApiVersions from a broker
  metadata  Request cluster Metadata from a broker
  ping      Open a connection and report round-trip time
  version   Print version information
  help      Print this help message`)
}

func commonFlags(fs *flag.FlagSet) (*string, *string) {
	cfgFile := fs.String("config", "", "Path to config file (YAML)")
	broker := fs.String("broker", "", "Broker address host:port (overrides the first configured seed)")
	return cfgFile, broker
}

// session bundles one invocation's dialed connection together with the
// optional audit log and broker cache config.go enables by default, so
// every run* command closes them the same way regardless of which are
// actually active.
type session struct {
	conn  *conn.Connection
	rc    *protocol.RequestContext
	cfg   *config.Config
	audit *audit.Log
	cache *brokercache.Cache
}

// Close releases the connection and any resources loadAndDial opened for
// it, in reverse acquisition order. Safe to call even when audit/cache
// were never opened.
func (s *session) Close() {
	s.conn.Dispose()
	if s.cache != nil {
		s.cache.Close()
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

func loadAndDial(cfgFile, brokerOverride string) (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	seed := cfg.Brokers.Seeds[0]
	if brokerOverride != "" {
		seed = brokerOverride
	}
	endpoint, err := conn.ParseEndpoint(seed)
	if err != nil {
		return nil, fmt.Errorf("parse broker address: %w", err)
	}

	var auditLog *audit.Log
	if cfg.Audit.Enabled {
		auditLog, err = audit.Open(cfg.Audit.DBPath, cfg.Audit.QueueSize)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
	}

	var cache *brokercache.Cache
	if cfg.Cache.Enabled {
		cache, err = brokercache.Open(brokercache.Options{
			DataDir:    cfg.Cache.DataDir,
			HotTTL:     cfg.Cache.HotTTL,
			GCInterval: cfg.Cache.GCInterval,
		})
		if err != nil {
			if auditLog != nil {
				auditLog.Close()
			}
			return nil, fmt.Errorf("open broker cache: %w", err)
		}
	}

	tel := telemetry.New(cfg.Telemetry.ServiceName)
	opts := []conn.Option{
		conn.WithLogger(tel),
		conn.WithResponseTimeout(cfg.Client.ResponseTimeout),
		conn.WithDialTimeout(cfg.Client.DialTimeout),
		conn.WithReaderJoinTimeout(cfg.Client.ReaderJoinTimeout),
		conn.WithRetryPolicy(retry.Backoff{
			BaseDelay: cfg.Retry.BaseDelay,
			MaxDelay:  cfg.Retry.MaxDelay,
			Linear:    cfg.Retry.Linear,
			Timeout:   cfg.Retry.Timeout,
		}),
	}
	if auditLog != nil {
		opts = append(opts, conn.WithAuditor(auditLog))
	}
	c := conn.New(endpoint, opts...)

	rc := protocol.NewRequestContext(cfg.Client.ClientID).WithTelemetry(tel.NotifyProduce)
	return &session{conn: c, rc: rc, cfg: cfg, audit: auditLog, cache: cache}, nil
}

func runVersions(args []string) {
	fs := flag.NewFlagSet("versions", flag.ExitOnError)
	cfgFile, broker := commonFlags(fs)
	fs.Parse(args)

	sess, err := loadAndDial(*cfgFile, *broker)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	endpoint := sess.conn.Endpoint().String()
	if sess.cache != nil {
		if versions, ok := sess.cache.Get(endpoint); ok {
			fmt.Println("(cached)")
			for _, v := range versions {
				fmt.Printf("api_key=%-20s min=%d max=%d\n", v.APIKey, v.MinVersion, v.MaxVersion)
			}
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	resp, err := sess.conn.Send(ctx, req, sess.rc.WithAPIVersion(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "versions request failed: %v\n", err)
		os.Exit(1)
	}

	if sess.cache != nil {
		sess.cache.Put(endpoint, resp.ApiVersions.ApiVersions)
	}

	for _, v := range resp.ApiVersions.ApiVersions {
		fmt.Printf("api_key=%-20s min=%d max=%d\n", v.APIKey, v.MinVersion, v.MaxVersion)
	}
}

func runMetadata(args []string) {
	fs := flag.NewFlagSet("metadata", flag.ExitOnError)
	cfgFile, broker := commonFlags(fs)
	fs.Parse(args)

	sess, err := loadAndDial(*cfgFile, *broker)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := &protocol.Request{APIKey: protocol.APIKeyMetadata, Metadata: &protocol.MetadataRequest{Topics: nil}}
	resp, err := sess.conn.Send(ctx, req, sess.rc.WithAPIVersion(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "metadata request failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("brokers:")
	for _, b := range resp.Metadata.Brokers {
		fmt.Printf("  id=%d host=%s port=%d\n", b.NodeID, b.Host, b.Port)
	}
	fmt.Println("topics:")
	for _, t := range resp.Metadata.Topics {
		fmt.Printf("  %s (partitions=%d)\n", t.Name, len(t.Partitions))
	}
}

func runPing(args []string) {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	cfgFile, broker := commonFlags(fs)
	fs.Parse(args)

	sess, err := loadAndDial(*cfgFile, *broker)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	_, err = sess.conn.Send(ctx, req, sess.rc.WithAPIVersion(0))
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ping failed after %s: %v\n", elapsed, err)
		os.Exit(1)
	}

	fmt.Printf("ping %s: %s\n", sess.conn.Endpoint(), elapsed)
}
