package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Operation is one callable HTTP endpoint within a UTCP tool manifest —
// the `tools[name].tools[i]` entries of the YAML surface (spec §6.2).
type Operation struct {
	Name        string
	Description string
	Endpoint    string // path, joined against the manifest's BaseURL
	Method      string // GET, POST, ...
	Parameters  []string
}

// BearerAuth carries the environment variable name a UTCPTool resolves
// its bearer token from at call time, never at load time — so a
// manifest can be parsed and validated before any secret is available.
type BearerAuth struct {
	SecretEnvVar string
}

// UTCPManifest is a parsed `tools[name]` entry: an HTTP-backed tool
// description with one or more callable operations, consumed by the
// utcp_agent agent kind (spec §4.C.6).
type UTCPManifest struct {
	Name        string
	Description string
	BaseURL     string
	Auth        *BearerAuth
	Operations  []Operation
}

// UTCPTool adapts a UTCPManifest into the Tool interface so utcp_agent
// can drive it through the same ReAct-style loop tool_using uses —
// "as tool_using, but tools are invoked as HTTP endpoints" per spec.
// Call's input names one of the manifest's Operations under "operation"
// (optional when the manifest has exactly one). Input keys listed in the
// operation's Parameters become query parameters of a GET request, and a
// string input["body"] is sent as the request body, via the shared
// HTTPTool underneath; other input keys are not sent.
type UTCPTool struct {
	manifest UTCPManifest
	secret   func(envVar string) string
	http     *HTTPTool
}

// NewUTCPTool builds a Tool for manifest. secret resolves an
// environment variable name to its value at call time; pass
// os.Getenv in production, a stub in tests.
func NewUTCPTool(manifest UTCPManifest, secret func(string) string) *UTCPTool {
	if secret == nil {
		secret = func(string) string { return "" }
	}
	return &UTCPTool{manifest: manifest, secret: secret, http: NewHTTPTool()}
}

// Name returns the manifest's name, the identifier utcp_agent's Tools
// list references.
func (u *UTCPTool) Name() string { return u.manifest.Name }

// Call resolves input["operation"] to a manifest operation, builds the
// HTTP request via the shared HTTPTool, and attaches bearer auth if the
// manifest declares it.
func (u *UTCPTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	opName, _ := input["operation"].(string)
	if opName == "" && len(u.manifest.Operations) == 1 {
		opName = u.manifest.Operations[0].Name
	}
	op, ok := u.findOperation(opName)
	if !ok {
		return nil, fmt.Errorf("utcp tool %q has no operation %q", u.manifest.Name, opName)
	}

	target, err := u.buildURL(op, input)
	if err != nil {
		return nil, err
	}

	httpInput := map[string]interface{}{
		"method": op.Method,
		"url":    target,
	}
	if headers := u.buildHeaders(); len(headers) > 0 {
		httpInput["headers"] = headers
	}
	if body, ok := input["body"].(string); ok {
		httpInput["body"] = body
	}

	return u.http.Call(ctx, httpInput)
}

func (u *UTCPTool) findOperation(name string) (Operation, bool) {
	for _, op := range u.manifest.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

func (u *UTCPTool) buildURL(op Operation, input map[string]interface{}) (string, error) {
	base := strings.TrimRight(u.manifest.BaseURL, "/")
	path := strings.TrimLeft(op.Endpoint, "/")
	full := base + "/" + path

	if strings.EqualFold(op.Method, http.MethodGet) {
		q := url.Values{}
		for _, param := range op.Parameters {
			if v, ok := input[param]; ok {
				q.Set(param, fmt.Sprintf("%v", v))
			}
		}
		if len(q) > 0 {
			full += "?" + q.Encode()
		}
	}
	return full, nil
}

func (u *UTCPTool) buildHeaders() map[string]interface{} {
	if u.manifest.Auth == nil {
		return nil
	}
	token := u.secret(u.manifest.Auth.SecretEnvVar)
	if token == "" {
		return nil
	}
	return map[string]interface{}{"Authorization": "Bearer " + token}
}
