// Command acqctl drives an acquisition either in-process, for local
// testing without a daemon, or against a running cmd/acqd over gRPC with
// -remote, following the flag.String/flag.Parse/log.Fatalf CLI style of
// go4vl's benchmark runner.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/scopeacq/acquire/acqconfig"
	"github.com/scopeacq/acquire/acqlog"
	"github.com/scopeacq/acquire/rpc"
	"github.com/scopeacq/acquire/runtime"

	_ "github.com/scopeacq/acquire/drivers/nullstore"
	_ "github.com/scopeacq/acquire/drivers/rawstore"
	_ "github.com/scopeacq/acquire/drivers/simcam"
	_ "github.com/scopeacq/acquire/drivers/tiffjsonstore"
	_ "github.com/scopeacq/acquire/drivers/tiffstore"
)

var (
	configPath = flag.String("config", "acquisition.yaml", "Path to the acquisition YAML document")
	remoteAddr = flag.String("remote", "", "Dial acqd at this address instead of running in-process")
	duration   = flag.String("duration", "5s", "How long to run before stopping, in -cmd=run mode")
	command    = flag.String("cmd", "run", "configure|start|stop|abort|status|metadata|trigger|run")
	streamID   = flag.Int("stream", 0, "Stream index, for -cmd=trigger")
)

func main() {
	flag.Parse()

	if *remoteAddr != "" {
		if err := runRemote(); err != nil {
			log.Fatalf("acqctl: %v", err)
		}
		return
	}
	if *command != "run" {
		log.Fatalf("acqctl: -cmd=%s requires -remote (in-process mode only supports run)", *command)
	}
	if err := runLocal(); err != nil {
		log.Fatalf("acqctl: %v", err)
	}
}

// runLocal configures and runs every stream in acquisition.yaml in this
// process for -duration, then stops and tears down. It exercises the same
// driver and runtime code a daemon would, without needing one running.
func runLocal() error {
	cfg, err := acqconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := acqlog.New(false, nil)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	rt := runtime.New(logger)
	if err := rt.Init(len(cfg.Streams)); err != nil {
		return fmt.Errorf("init runtime: %w", err)
	}

	requested, err := cfg.ToRuntimeProperties()
	if err != nil {
		return fmt.Errorf("convert config: %w", err)
	}
	if err := rt.Configure(&requested); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	log.Printf("configured %d stream(s)", len(requested.Streams))

	d, err := time.ParseDuration(*duration)
	if err != nil {
		return fmt.Errorf("parse -duration: %w", err)
	}

	if err := rt.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	log.Printf("running for %s", d)
	time.Sleep(d)

	if err := rt.Stop(); err != nil {
		log.Printf("stop reported errors: %v", err)
	}
	if err := rt.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("done")
	return nil
}

func runRemote() error {
	conn, err := grpc.NewClient(*remoteAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", *remoteAddr, err)
	}
	defer conn.Close()
	client := rpc.NewAcquisitionClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *command {
	case "configure":
		cfg, err := acqconfig.Load(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		req, err := structpb.NewStruct(m)
		if err != nil {
			return err
		}
		resp, err := client.Configure(ctx, req)
		if err != nil {
			return err
		}
		return printStruct(resp)
	case "start":
		_, err := client.Start(ctx, &emptypb.Empty{})
		return err
	case "stop":
		_, err := client.Stop(ctx, &emptypb.Empty{})
		return err
	case "abort":
		_, err := client.Abort(ctx, &emptypb.Empty{})
		return err
	case "status":
		resp, err := client.GetConfiguration(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		return printStruct(resp)
	case "metadata":
		resp, err := client.GetConfigurationMetadata(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		return printStruct(resp)
	case "trigger":
		req, err := structpb.NewStruct(map[string]any{"stream_id": float64(*streamID)})
		if err != nil {
			return err
		}
		_, err = client.ExecuteTrigger(ctx, req)
		return err
	default:
		return fmt.Errorf("unknown -cmd %q", *command)
	}
}

func printStruct(s *structpb.Struct) error {
	data, err := json.MarshalIndent(s.AsMap(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
