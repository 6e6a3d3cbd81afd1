package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/viant/mcp-protocol/authorization"
	oauthmeta "github.com/viant/mcp-protocol/oauth2/meta"
	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"
	serverauth "github.com/viant/mcp/server/auth"
	"github.com/viant/scy"
	"github.com/viant/scy/auth/flow"
	"github.com/viant/scy/cred"
	_ "github.com/viant/scy/kms/blowfish"

	xnmcp "github.com/viant/xncode/mcp"
	"github.com/viant/xncode/service"
)

// Options defines CLI flags for the xncode MCP server and one-shot transforms.
type Options struct {
	Encode       string `short:"e" long:"encode" description:"encode the given text, print it and exit"`
	Decode       string `short:"d" long:"decode" description:"decode the given text, print it and exit"`
	Src          string `long:"src" description:"source URL for a one-shot file transform (file://, mem://, gs://, ...)"`
	Dst          string `long:"dst" description:"destination URL for --src (default: under --storage)"`
	Direction    string `long:"direction" description:"encode|decode for --src" default:"encode"`
	Scheme       string `long:"scheme" description:"token format: legacy|framed (env XNCODE_SCHEME)"`
	Policy       string `long:"policy" description:"legacy decode policy: substitute|skip|reject"`
	Substitute   string `long:"substitute" description:"character written for unparseable fragments (default U+0000)"`
	Storage      string `long:"storage" description:"AFS base URL for transformed files (env XNCODE_STORAGE, default mem://localhost/xncode)"`
	MaxInput     int    `long:"max-input" description:"max inline text bytes" default:"1048576"`
	HTTPAddr     string `short:"a" long:"addr" description:"HTTP listen address (empty disables HTTP)"`
	UseData      bool   `long:"use-data" description:"return tool results as structured data instead of text"`
	Oauth2Config string `short:"o" long:"oauth2config" description:"Path to JSON OAuth2 configuration file (scy EncodedResource)"`
	UseIdToken   bool   `short:"i" long:"use-id-token" description:"Use ID token (instead of access token) for identity scoping"`
}

func main() {

	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		os.Exit(2)
	}
	if opts.Storage == "" {
		opts.Storage = envOr("XNCODE_STORAGE", "")
	}
	if opts.Scheme == "" {
		opts.Scheme = envOr("XNCODE_SCHEME", "")
	}
	cfg := &service.Config{
		Scheme:        opts.Scheme,
		Policy:        opts.Policy,
		Substitute:    opts.Substitute,
		StorageDir:    strings.Replace(opts.Storage, "$HOME", os.Getenv("HOME"), 1),
		MaxInputBytes: opts.MaxInput,
		UseData:       opts.UseData,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	svc := service.NewService(cfg)

	if done, err := runOnce(context.Background(), svc, &opts); done {
		if err != nil {
			log.Fatal(err)
		}
		return
	}
	if opts.HTTPAddr == "" {
		log.Fatal("nothing to do: set --addr to serve or one of --encode, --decode, --src")
	}

	options := []mcpsrv.Option{
		mcpsrv.WithImplementation(schema.Implementation{Name: "xncode-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(xnmcp.NewHandler(svc)),
		mcpsrv.WithEndpointAddress(opts.HTTPAddr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
		mcpsrv.WithCustomHTTPHandler("/xncode/encode", svc.EncodeHandler()),
		mcpsrv.WithCustomHTTPHandler("/xncode/decode", svc.DecodeHandler()),
		mcpsrv.WithCustomHTTPHandler("/xncode/stats", svc.StatsHandler()),
		mcpsrv.WithCustomHTTPHandler("/xncode/stats/clear", svc.StatsClearHandler()),
	}

	// Optional: enable server-level OAuth2 via config
	if v := strings.TrimSpace(opts.Oauth2Config); v != "" {
		res := scy.EncodedResource(v).Decode(context.Background(), cred.Oauth2Config{})
		sec, err := scy.New().Load(context.Background(), res)
		if err != nil {
			log.Fatalf("failed to load oauth2config: %v", err)
		}
		oauth2Config, ok := sec.Target.(*cred.Oauth2Config)
		if !ok {
			log.Fatalf("invalid oauth2config secret type")
		}
		authPolicy := &authorization.Policy{
			Global: &authorization.Authorization{UseIdToken: opts.UseIdToken, ProtectedResourceMetadata: &oauthmeta.ProtectedResourceMetadata{
				AuthorizationServers: []string{oauth2Config.Config.Endpoint.AuthURL},
			}},
			// plain HTTP endpoints stay open; /mcp is protected
			ExcludeURI: "/sse,/xncode/",
		}
		bff := &serverauth.BackendForFrontend{Client: &oauth2Config.Config, AuthorizationExchangeHeader: flow.AuthorizationExchangeHeader}
		authSvc, err := serverauth.New(&serverauth.Config{BackendForFrontend: bff, Policy: authPolicy})
		if err != nil {
			log.Fatalf("failed to init auth service: %v", err)
		}
		options = append(options,
			mcpsrv.WithAuthorizer(authSvc.Middleware),
			mcpsrv.WithProtectedResourcesHandler(authSvc.ProtectedResourcesHandler),
		)
	}

	server, err := mcpsrv.New(options...)
	if err != nil {
		log.Fatal(err)
	}
	server.UseStreamableHTTP(true)
	log.Printf("[xncode] listening on %s; scheme=%s policy=%s storage=%s", opts.HTTPAddr, svc.Scheme(), svc.Policy(), svc.StorageDir())
	if err := server.HTTP(context.Background(), opts.HTTPAddr).ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// runOnce handles --encode, --decode and --src; done is false when none is set.
func runOnce(ctx context.Context, svc *service.Service, opts *Options) (done bool, err error) {
	switch {
	case opts.Encode != "":
		out, err := svc.Encode(ctx, &service.EncodeInput{Text: opts.Encode})
		if err != nil {
			return true, err
		}
		fmt.Println(out.Text)
	case opts.Decode != "":
		out, err := svc.Decode(ctx, &service.DecodeInput{Text: opts.Decode})
		if err != nil {
			return true, err
		}
		fmt.Println(out.Text)
	case opts.Src != "":
		out, err := svc.TransformFile(ctx, &service.TransformFileInput{Source: opts.Src, Dest: opts.Dst, Direction: opts.Direction})
		if err != nil {
			return true, err
		}
		fmt.Println(out.Dest)
	default:
		return false, nil
	}
	return true, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
