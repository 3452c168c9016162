package model

type ComplianceMode string

const (
	ComplianceStrict  ComplianceMode = "strict"
	ComplianceRelaxed ComplianceMode = "relaxed"
)

// VerifyRequest carries hex-encoded key and signature. Exactly one of
// Message (raw text) or MessageHex should be set; both empty means an empty
// message.
type VerifyRequest struct {
	PublicKey  string         `json:"publicKey"`
	Message    string         `json:"message,omitempty"`
	MessageHex string         `json:"messageHex,omitempty"`
	Signature  string         `json:"signature"`
	Compliance ComplianceMode `json:"compliance,omitempty"`
}

type VerifyResult struct {
	Valid      bool           `json:"valid"`
	Compliance ComplianceMode `json:"compliance"`
	Error      *CodedError    `json:"error,omitempty"`
}

type Entry struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Mutates  bool   `json:"mutates"`
	Args     []Arg  `json:"args,omitempty"`
	Returns  string `json:"returns,omitempty"`
}

type Arg struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ContractInfo struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

type InstantiateResult struct {
	Instance    string `json:"instance"`
	Constructor string `json:"constructor"`
}

// CallResult is one message dispatch. Value is set when the output decodes
// as a bool.
type CallResult struct {
	Instance string `json:"instance"`
	Message  string `json:"message"`
	Output   string `json:"output"`
	Value    *bool  `json:"value,omitempty"`
}
