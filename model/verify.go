package model

import (
	"encoding/hex"

	"xdao.co/edsig/abi"
	"xdao.co/edsig/compliance"
	"xdao.co/edsig/edsig"
)

// Verify decodes req and runs the verifier. Request decoding problems are
// returned as errors; key, signature and equation failures are reported in
// the result with Valid=false.
func Verify(req VerifyRequest) (*VerifyResult, error) {
	mode, ok := compliance.ParseMode(string(req.Compliance))
	if !ok {
		return nil, NewError(ErrInvalidRequest, "invalid compliance mode: "+string(req.Compliance))
	}
	pub, err := hex.DecodeString(req.PublicKey)
	if err != nil {
		return nil, NewError(ErrInvalidRequest, "publicKey: "+err.Error())
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		return nil, NewError(ErrInvalidRequest, "signature: "+err.Error())
	}
	msg := []byte(req.Message)
	if req.MessageHex != "" {
		if req.Message != "" {
			return nil, NewError(ErrInvalidRequest, "set message or messageHex, not both")
		}
		if msg, err = hex.DecodeString(req.MessageHex); err != nil {
			return nil, NewError(ErrInvalidRequest, "messageHex: "+err.Error())
		}
	}

	res := &VerifyResult{Compliance: ComplianceMode(mode.String())}
	if err := edsig.Check(pub, msg, sig, edsig.Options{Mode: mode}); err != nil {
		res.Error = FromError(err)
		return res, nil
	}
	res.Valid = true
	return res, nil
}

// FromMetadata projects contract metadata for output.
func FromMetadata(md abi.Metadata) ContractInfo {
	out := ContractInfo{Name: md.Name, Entries: make([]Entry, 0, len(md.Entries))}
	for _, e := range md.Entries {
		entry := Entry{
			Kind:     string(e.Kind),
			Name:     e.Name,
			Selector: e.Selector.String(),
			Mutates:  e.Mutates,
			Returns:  e.Returns,
		}
		for _, a := range e.Args {
			entry.Args = append(entry.Args, Arg{Name: a.Name, Type: a.Type})
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

// NewCallResult builds a CallResult, decoding a one-byte bool output.
func NewCallResult(instance, message string, output []byte) CallResult {
	res := CallResult{Instance: instance, Message: message, Output: hex.EncodeToString(output)}
	if v, err := abi.DecodeBool(output); err == nil {
		res.Value = &v
	}
	return res
}
