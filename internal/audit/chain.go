package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxEntryBytes bounds a single log line; commands are user input and can be
// large, but an unbounded line is a parsing hazard.
const maxEntryBytes = 1 << 20

// hashEntry computes the chain hash for an entry: SHA-256 over the previous
// hash concatenated with the entry's JSON encoding, EntryHash blanked.
func hashEntry(e *Entry) string {
	stripped := *e
	stripped.EntryHash = ""
	payload, err := json.Marshal(&stripped)
	if err != nil {
		// Entry is a plain struct; Marshal cannot fail on it.
		return ""
	}
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyResult reports the outcome of a chain verification pass.
type VerifyResult struct {
	Entries int64
	// BrokenSequence is the sequence number of the first entry whose hash
	// or linkage does not verify, 0 when the chain is intact.
	BrokenSequence int64
	Reason         string
}

// OK reports whether the whole chain verified.
func (r VerifyResult) OK() bool { return r.BrokenSequence == 0 }

// VerifyFile replays a session log and checks every entry's hash and its
// linkage to the predecessor.
func VerifyFile(path string) (VerifyResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxEntryBytes)

	var res VerifyResult
	var wantSeq int64 = 1
	prevHash := ""
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			res.BrokenSequence = wantSeq
			res.Reason = fmt.Sprintf("entry %d: malformed JSON", wantSeq)
			return res, nil
		}
		res.Entries++
		switch {
		case e.Sequence != wantSeq:
			res.BrokenSequence = e.Sequence
			res.Reason = fmt.Sprintf("entry %d: expected sequence %d", e.Sequence, wantSeq)
			return res, nil
		case e.PrevHash != prevHash:
			res.BrokenSequence = e.Sequence
			res.Reason = fmt.Sprintf("entry %d: previous-hash link broken", e.Sequence)
			return res, nil
		case hashEntry(&e) != e.EntryHash:
			res.BrokenSequence = e.Sequence
			res.Reason = fmt.Sprintf("entry %d: hash mismatch", e.Sequence)
			return res, nil
		}
		prevHash = e.EntryHash
		wantSeq++
	}
	if err := sc.Err(); err != nil {
		return VerifyResult{}, fmt.Errorf("read audit log: %w", err)
	}
	return res, nil
}
