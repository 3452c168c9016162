package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"xdao.co/edsig/compliance"
	"xdao.co/edsig/contract"
	"xdao.co/edsig/host/grpchost"
	"xdao.co/edsig/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "selftest":
		return cmdSelfTest(args[1:], out, errOut)
	case "selectors":
		return cmdSelectors(args[1:], out, errOut)
	case "instantiate":
		return cmdInstantiate(args[1:], out, errOut)
	case "call":
		return cmdCall(args[1:], out, errOut)
	case "cas":
		return cmdCAS(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "edsig: Ed25519 verifier and flip-contract client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  edsig verify --public-key <64hex> (--message <text> | --message-hex <hex>) --signature <128hex> [--mode strict|relaxed] [--json]")
	fmt.Fprintln(w, "  edsig selftest [--mode strict|relaxed]")
	fmt.Fprintln(w, "  edsig selectors")
	fmt.Fprintln(w, "  edsig instantiate --target <host:port> --constructor <name|0xselector> [--args <hex>] [--instance <id>]")
	fmt.Fprintln(w, "  edsig call --target <host:port> --instance <id> --message <name|0xselector> [--args <hex>]")
	fmt.Fprintln(w, "  edsig cas put --backend <name> [backend flags] <file>")
	fmt.Fprintln(w, "  edsig cas get --backend <name> [backend flags] --cid <cid> [--out <file>]")
	fmt.Fprintln(w, "  edsig cas state --backend <name> [backend flags] --cid <cid>")
	fmt.Fprintln(w, "  edsig cas backends")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - verify exits 0 when valid, 1 when invalid, 2 on usage errors or an unparsable key/signature")
	fmt.Fprintln(w, "  - bool arguments are one byte: 00 (false) or 01 (true)")
	fmt.Fprintln(w, "  - instantiate/call talk to edsig-hostd")
	fmt.Fprintln(w, "  - cas backends: memory, localfs, grpc, ipfs (ipfs needs the ipfs binary on PATH)")
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var req model.VerifyRequest
	var mode string
	var asJSON bool
	fs.StringVar(&req.PublicKey, "public-key", "", "Public key (64 hex chars)")
	fs.StringVar(&req.Message, "message", "", "Message text")
	fs.StringVar(&req.MessageHex, "message-hex", "", "Message bytes as hex")
	fs.StringVar(&req.Signature, "signature", "", "Signature (128 hex chars)")
	fs.StringVar(&mode, "mode", "strict", "Verification policy: strict|relaxed")
	fs.BoolVar(&asJSON, "json", false, "Print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if req.PublicKey == "" || req.Signature == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: edsig verify --public-key <hex> (--message <text> | --message-hex <hex>) --signature <hex>")
		return 2
	}
	req.Compliance = model.ComplianceMode(mode)

	res, err := model.Verify(req)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if asJSON {
		if err := writeJSON(out, res); err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	} else if res.Valid {
		_, _ = fmt.Fprintln(out, "valid")
	} else {
		_, _ = fmt.Fprintf(out, "invalid: %s\n", res.Error)
	}
	return verifyExitCode(res)
}

// verifyExitCode is 0 for a valid signature, 1 for one that does not verify
// and 2 when the key or signature could not be parsed at all.
func verifyExitCode(res *model.VerifyResult) int {
	switch {
	case res.Valid:
		return 0
	case res.Error != nil && (res.Error.Code == model.ErrInvalidPublicKey || res.Error.Code == model.ErrInvalidSignature):
		return 2
	default:
		return 1
	}
}

func cmdSelfTest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("selftest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var mode string
	fs.StringVar(&mode, "mode", "strict", "Verification policy: strict|relaxed")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	m, ok := compliance.ParseMode(mode)
	if !ok {
		fmt.Fprintf(errOut, "invalid --mode: %s\n", mode)
		return 2
	}
	p, err := contract.NewProgram(contract.Options{Mode: m})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	s := p.Default()
	ok = p.VerificationTest(&s)
	_, _ = fmt.Fprintln(out, ok)
	if !ok {
		return 1
	}
	return 0
}

func cmdSelectors(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("selectors", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := writeJSON(out, model.FromMetadata(contract.DefaultProgram().Metadata())); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

type remoteFlags struct {
	target  string
	timeout time.Duration
	args    string
}

func (r *remoteFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&r.target, "target", "127.0.0.1:7443", "edsig-hostd gRPC address")
	fs.DurationVar(&r.timeout, "timeout", 10*time.Second, "Request timeout")
	fs.StringVar(&r.args, "args", "", "Encoded arguments as hex")
}

func (r *remoteFlags) dial() (*grpchost.Client, []byte, error) {
	args, err := hex.DecodeString(r.args)
	if err != nil {
		return nil, nil, fmt.Errorf("--args: %w", err)
	}
	c, err := grpchost.Dial(r.target, grpchost.DialOptions{Timeout: r.timeout})
	if err != nil {
		return nil, nil, err
	}
	return c, args, nil
}

func cmdInstantiate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("instantiate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var remote remoteFlags
	var ctor, instance string
	remote.add(fs)
	fs.StringVar(&ctor, "constructor", "default", "Constructor name or 0x selector")
	fs.StringVar(&instance, "instance", "", "Instance id (optional; server generates one)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: edsig instantiate --target <host:port> --constructor <name> [--args <hex>] [--instance <id>]")
		return 2
	}

	c, callArgs, err := remote.dial()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), remote.timeout)
	defer cancel()
	id, err := c.Instantiate(ctx, instance, ctor, callArgs)
	if err != nil {
		return printError(out, errOut, err)
	}
	if err := writeJSON(out, model.InstantiateResult{Instance: id, Constructor: ctor}); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

func cmdCall(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var remote remoteFlags
	var instance, message string
	remote.add(fs)
	fs.StringVar(&instance, "instance", "", "Instance id")
	fs.StringVar(&message, "message", "", "Message name or 0x selector")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if instance == "" || message == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: edsig call --target <host:port> --instance <id> --message <name> [--args <hex>]")
		return 2
	}

	c, callArgs, err := remote.dial()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), remote.timeout)
	defer cancel()
	output, err := c.Call(ctx, instance, message, callArgs)
	if err != nil {
		return printError(out, errOut, err)
	}
	if err := writeJSON(out, model.NewCallResult(instance, message, output)); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

// printError writes a coded error as JSON to out and a short line to errOut.
func printError(out io.Writer, errOut io.Writer, err error) int {
	ce := model.FromError(err)
	_ = writeJSON(out, struct {
		Error *model.CodedError `json:"error"`
	}{ce})
	fmt.Fprintln(errOut, ce)
	return 1
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
