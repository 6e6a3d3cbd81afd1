package service

import "github.com/viant/xncode/codec"

type EncodeInput struct {
	Text   string `json:"text" description:"text to encode"`
	Scheme string `json:"scheme,omitempty" description:"legacy|framed (default: server scheme)"`
}

type EncodeOutput struct {
	Text   string `json:"text"`
	Scheme string `json:"scheme"`
	Tokens int    `json:"tokens"`
}

type DecodeInput struct {
	Text       string `json:"text" description:"text to decode"`
	Scheme     string `json:"scheme,omitempty" description:"legacy|framed (default: server scheme)"`
	Policy     string `json:"policy,omitempty" description:"substitute|skip|reject, legacy scheme only (default: server policy)"`
	Substitute string `json:"substitute,omitempty" description:"single character written for unparseable fragments (default U+0000)"`
}

type DecodeOutput struct {
	Text   string `json:"text"`
	Scheme string `json:"scheme"`
}

type InspectInput struct {
	Text string `json:"text" description:"text to analyse"`
}

type InspectOutput struct {
	codec.Analysis
	// Reasons explains why a legacy round trip would change the text.
	Reasons []string `json:"reasons,omitempty"`
}

type TransformFileInput struct {
	Source    string `json:"source" description:"source URL, e.g. file:///tmp/in.txt, mem://localhost/in.txt, gs://bucket/in.txt"`
	Dest      string `json:"dest,omitempty" description:"destination URL (default: <storageDir>/<namespace>/<uuid>.txt)"`
	Direction string `json:"direction,omitempty" description:"encode|decode (default encode)"`
	Scheme    string `json:"scheme,omitempty" description:"legacy|framed (default: server scheme)"`
	Policy    string `json:"policy,omitempty" description:"substitute|skip|reject (default: server policy)"`
}

type TransformFileOutput struct {
	Dest         string `json:"dest"`
	Direction    string `json:"direction"`
	Scheme       string `json:"scheme"`
	BytesRead    int64  `json:"bytesRead"`
	BytesWritten int64  `json:"bytesWritten"`
}

// Usage holds operation counters for one namespace.
type Usage struct {
	Namespace string `json:"namespace"`
	Encoded   int64  `json:"encoded"`
	Decoded   int64  `json:"decoded"`
	Inspected int64  `json:"inspected"`
	Files     int64  `json:"files"`
	Failures  int64  `json:"failures"`
}

type StatsInput struct{}

type StatsOutput struct {
	Usage Usage `json:"usage"`
}
