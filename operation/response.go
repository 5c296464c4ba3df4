package operation

import (
	"fmt"
	"strings"

	"github.com/nexusid/scimcore/internal/errs"
	"github.com/nexusid/scimcore/provider"
	"github.com/nexusid/scimcore/version"
)

func baseMetadata(req Request) Metadata {
	m := Metadata{
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		RequestID:    req.RequestID,
	}
	if req.Tenant != nil {
		m.TenantID = req.Tenant.TenantID
	}
	return m
}

func errorResponse(req Request, code, message string) Response {
	return Response{
		Success:   false,
		Error:     message,
		ErrorCode: code,
		Metadata:  baseMetadata(req),
	}
}

func notFoundResponse(req Request) Response {
	return errorResponse(req, errs.CodeResourceNotFound, fmt.Sprintf("resource not found: %s/%s", req.ResourceType, req.ResourceID))
}

// resourceResponse shapes a single VersionedResource, stamping both the
// raw version and its weak-ETag wire form into metadata.additional (spec
// §6 "additional: { version?, etag? }").
func resourceResponse(req Request, vr provider.VersionedResource) Response {
	body, err := vr.Resource.ToJSON()
	if err != nil {
		return errorResponse(req, errs.CodeInternalError, err.Error())
	}
	meta := baseMetadata(req)
	meta.ResourceID = vr.Resource.ID.String()
	meta.Additional.Version = vr.Version.String()
	meta.Additional.ETag = version.NewHttpVersion(vr.Version).String()
	return Response{Success: true, Data: body, Metadata: meta}
}

// conflictResponse shapes a version-mismatch failure, carrying both the
// raw and ETag forms of the expected and current versions (spec §6
// "expected_version?, current_version?, expected_etag?, current_etag?").
func conflictResponse(req Request, conflict *version.VersionConflict) Response {
	meta := baseMetadata(req)
	meta.Additional.ExpectedVersion = conflict.Expected.String()
	meta.Additional.CurrentVersion = conflict.Current.String()
	meta.Additional.ExpectedETag = version.NewHttpVersion(conflict.Expected).String()
	meta.Additional.CurrentETag = version.NewHttpVersion(conflict.Current).String()
	return Response{
		Success:   false,
		Error:     conflict.Error(),
		ErrorCode: errs.CodeVersionMismatch,
		Metadata:  meta,
	}
}

// conditionalResponse shapes any version.ConditionalResult[VersionedResource]
// (ConditionalUpdate and Patch share this shape).
func conditionalResponse(req Request, result version.ConditionalResult[provider.VersionedResource]) Response {
	switch result.Outcome {
	case version.OutcomeSuccess:
		return resourceResponse(req, result.Value)
	case version.OutcomeNotFound:
		return notFoundResponse(req)
	case version.OutcomeVersionMismatch:
		return conflictResponse(req, result.Conflict)
	default:
		code, message := mapError(result.Err)
		return errorResponse(req, code, message)
	}
}

// parseExpectedVersion accepts either a raw version token or an ETag-quoted
// form (spec §6 "expected_version?: <raw-version or ETag>").
func parseExpectedVersion(s string) (version.RawVersion, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, `W/`) {
		hv, err := version.ParseHttpVersion(trimmed)
		if err != nil {
			return version.RawVersion{}, err
		}
		return hv.Raw(), nil
	}
	return version.FromRaw(trimmed), nil
}

// decodePatchOps accepts either a bare array of {op, path, value} objects
// or a full RFC 7644 PATCH document ({"schemas": [...], "Operations":
// [...]}) — the core only interprets the Operations array either way.
func decodePatchOps(data any) ([]provider.PatchOp, error) {
	var raw []any
	switch v := data.(type) {
	case []any:
		raw = v
	case map[string]any:
		ops, ok := v["Operations"].([]any)
		if !ok {
			return nil, fmt.Errorf("patch document missing \"Operations\" array")
		}
		raw = ops
	default:
		return nil, fmt.Errorf("patch data must be an operations array or a PATCH document object")
	}

	out := make([]provider.PatchOp, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("patch operation %d is not an object", i)
		}
		op, _ := m["op"].(string)
		if op == "" {
			return nil, fmt.Errorf("patch operation %d missing \"op\"", i)
		}
		path, _ := m["path"].(string)
		out = append(out, provider.PatchOp{Op: strings.ToLower(op), Path: path, Value: m["value"]})
	}
	return out, nil
}
