package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/xncode/codec"
	"github.com/viant/xncode/service"
)

//go:embed tools/xncodeEncode.md
var descEncode string

//go:embed tools/xncodeDecode.md
var descDecode string

//go:embed tools/xncodeInspect.md
var descInspect string

//go:embed tools/xncodeTransformFile.md
var descTransformFile string

//go:embed tools/xncodeStats.md
var descStats string

func registerTools(base *protoserver.DefaultHandler, h *Handler) error {
	svc := h.service

	if err := protoserver.RegisterTool[*service.EncodeInput, *service.EncodeOutput](base.Registry, "xncodeEncode", descEncode, func(ctx context.Context, in *service.EncodeInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := svc.Encode(withCID(ctx), in)
		if err != nil {
			return buildFailure(svc, err)
		}
		return buildSuccessResult(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*service.DecodeInput, *service.DecodeOutput](base.Registry, "xncodeDecode", descDecode, func(ctx context.Context, in *service.DecodeInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := svc.Decode(withCID(ctx), in)
		if err != nil {
			return buildFailure(svc, err)
		}
		return buildSuccessResult(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*service.InspectInput, *service.InspectOutput](base.Registry, "xncodeInspect", descInspect, func(ctx context.Context, in *service.InspectInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := svc.Inspect(withCID(ctx), in)
		if err != nil {
			return buildFailure(svc, err)
		}
		return buildSuccessResult(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*service.TransformFileInput, *service.TransformFileOutput](base.Registry, "xncodeTransformFile", descTransformFile, func(ctx context.Context, in *service.TransformFileInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if strings.TrimSpace(in.Source) == "" {
			return buildErrorResult("source is required")
		}
		out, err := svc.TransformFile(withCID(ctx), in)
		if err != nil {
			return buildFailure(svc, err)
		}
		return buildSuccessResult(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*service.StatsInput, *service.StatsOutput](base.Registry, "xncodeStats", descStats, func(ctx context.Context, _ *service.StatsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		return buildSuccessResult(svc, svc.Stats(ctx))
	}); err != nil {
		return err
	}
	return nil
}

func withCID(ctx context.Context) context.Context {
	return service.WithCID(ctx, uuid.New().String())
}

// buildFailure maps invalid arguments to a protocol error and everything else to an error result.
func buildFailure(svc *service.Service, err error) (*schema.CallToolResult, *jsonrpc.Error) {
	if isInvalidArgument(err) {
		return buildErrorResult(err.Error())
	}
	return buildToolErrorResult(svc, err.Error()), nil
}

func isInvalidArgument(err error) bool {
	for _, target := range []error{
		codec.ErrUnknownScheme,
		codec.ErrUnknownPolicy,
		service.ErrInvalidSubstitute,
		service.ErrUnknownDirection,
		service.ErrMissingSource,
		service.ErrInputTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(svc *service.Service, payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	if svc.UseTextField() {
		b, _ := json.Marshal(payload)
		return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{{Type: "text", Text: string(b)}}}, nil
	}
	return &schema.CallToolResult{StructuredContent: map[string]any{"result": payload}}, nil
}

func buildToolErrorResult(svc *service.Service, message string) *schema.CallToolResult {
	isErr := true
	if svc.UseTextField() {
		return &schema.CallToolResult{IsError: &isErr, Content: []schema.CallToolResultContentElem{{Type: "text", Text: message}}}
	}
	return &schema.CallToolResult{IsError: &isErr, StructuredContent: map[string]any{"error": message}}
}
