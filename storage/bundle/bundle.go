// Package bundle moves snapshots between CAS backends as a deterministic TAR
// archive. Each object is stored under blocks/<cid>; an optional index.json
// lists the blocks and named labels (the ledger uses instance ids).
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/edsig/storage"
)

// FormatVersion is the current index schema version.
const FormatVersion = 1

const indexPath = "index.json"

var epoch0 = time.Unix(0, 0).UTC()

type ExportOptions struct {
	// Labels maps names to CIDs. Every labelled CID is exported too.
	Labels map[string]cid.Cid
	// IncludeIndex writes index.json. It is implied when Labels is non-empty.
	IncludeIndex bool
}

// Export writes the objects for ids (and any labelled CIDs) to w.
//
// Entry order is lexicographic and headers are normalized, so equal inputs
// give equal bytes. Every object is checked against its CID.
func Export(w io.Writer, cas storage.CAS, ids []cid.Cid, opts ExportOptions) error {
	if cas == nil {
		return errors.New("bundle: nil CAS")
	}

	uniq := make(map[string]cid.Cid, len(ids)+len(opts.Labels))
	for _, id := range ids {
		if !id.Defined() {
			return storage.ErrInvalidCID
		}
		uniq[id.String()] = id
	}
	labels, err := sortedLabels(opts.Labels)
	if err != nil {
		return err
	}
	for _, l := range labels {
		uniq[l.CID] = opts.Labels[l.Name]
	}

	keys := make([]string, 0, len(uniq))
	for s := range uniq {
		keys = append(keys, s)
	}
	sort.Strings(keys)

	tw := tar.NewWriter(w)
	blocks := make([]indexBlock, 0, len(keys))
	for _, s := range keys {
		id := uniq[s]
		b, err := cas.Get(id)
		if err == nil {
			err = storage.VerifyCID(id, b)
		}
		if err == nil {
			err = writeFile(tw, "blocks/"+s, b)
		}
		if err != nil {
			_ = tw.Close()
			return fmt.Errorf("bundle: export %s: %w", s, err)
		}
		blocks = append(blocks, indexBlock{CID: s, Size: len(b)})
	}

	if opts.IncludeIndex || len(labels) > 0 {
		b, err := json.Marshal(indexJSON{
			Version:   FormatVersion,
			CIDCodec:  "raw",
			Multihash: "sha2-256",
			Blocks:    blocks,
			Labels:    labels,
		})
		if err == nil {
			err = writeFile(tw, indexPath, append(b, '\n'))
		}
		if err != nil {
			_ = tw.Close()
			return err
		}
	}
	return tw.Close()
}

func sortedLabels(m map[string]cid.Cid) ([]indexLabel, error) {
	names := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			return nil, errors.New("bundle: empty label name")
		}
		if !m[k].Defined() {
			return nil, storage.ErrInvalidCID
		}
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]indexLabel, 0, len(names))
	for _, k := range names {
		out = append(out, indexLabel{Name: k, CID: m[k].String()})
	}
	return out, nil
}

type ImportOptions struct {
	// IgnoreUnknown skips unknown entries instead of failing.
	IgnoreUnknown bool
}

// Contents describes what Import read.
type Contents struct {
	Blocks []cid.Cid
	// Labels is empty when the bundle has no index.
	Labels map[string]cid.Cid
}

// Import reads a bundle into cas, failing on unknown entries.
func Import(r io.Reader, cas storage.CAS) (Contents, error) {
	return ImportWithOptions(r, cas, ImportOptions{})
}

// ImportWithOptions reads a bundle into cas. Each block must hash to the CID
// in its file name, and every label must point at a block in the bundle.
func ImportWithOptions(r io.Reader, cas storage.CAS, opts ImportOptions) (Contents, error) {
	var out Contents
	if cas == nil {
		return out, errors.New("bundle: nil CAS")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}
	var idx *indexJSON

	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return out, fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return out, fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		if name == indexPath {
			idx = new(indexJSON)
			if err := json.NewDecoder(tr).Decode(idx); err != nil {
				return out, fmt.Errorf("bundle: index: %w", err)
			}
			continue
		}
		if !strings.HasPrefix(name, "blocks/") {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return out, fmt.Errorf("bundle: unknown entry: %s", name)
		}

		id, err := cid.Decode(strings.TrimPrefix(name, "blocks/"))
		if err != nil || !id.Defined() {
			return out, storage.ErrInvalidCID
		}
		payload, err := io.ReadAll(tr)
		if err != nil {
			return out, err
		}
		if err := storage.VerifyCID(id, payload); err != nil {
			return out, err
		}
		if _, ok := seen[id.String()]; ok {
			return out, fmt.Errorf("bundle: duplicate block entry: %s", id)
		}
		seen[id.String()] = struct{}{}

		putID, err := cas.Put(payload)
		if err != nil {
			return out, err
		}
		if !putID.Equals(id) {
			return out, storage.ErrCIDMismatch
		}
		out.Blocks = append(out.Blocks, id)
	}

	if idx == nil {
		return out, nil
	}
	if idx.Version != FormatVersion {
		return out, fmt.Errorf("bundle: unsupported index version %d", idx.Version)
	}
	out.Labels = make(map[string]cid.Cid, len(idx.Labels))
	for _, l := range idx.Labels {
		id, err := cid.Decode(l.CID)
		if err != nil {
			return out, storage.ErrInvalidCID
		}
		if _, ok := seen[id.String()]; !ok {
			return out, fmt.Errorf("bundle: label %q points outside the bundle", l.Name)
		}
		out.Labels[l.Name] = id
	}
	return out, nil
}

type indexJSON struct {
	Version   int          `json:"version"`
	CIDCodec  string       `json:"cidCodec"`
	Multihash string       `json:"multihash"`
	Blocks    []indexBlock `json:"blocks"`
	Labels    []indexLabel `json:"labels,omitempty"`
}

type indexBlock struct {
	CID  string `json:"cid"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
