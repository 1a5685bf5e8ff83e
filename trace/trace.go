// Package trace keeps a compressed audit log of every tick's decisions, one
// JSON line per tick, so a match can be reviewed after the fact.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/lwg-ai/model"
)

// Entry is one tick's decision record.
type Entry struct {
	Session string          `json:"session"`
	Tick    int             `json:"tick"`
	Time    float64         `json:"time"`
	Player  int             `json:"player"`
	Gold    int             `json:"gold"`
	Supply  int             `json:"supply"`
	Orders  []model.Command `json:"orders"`
}

// NewEntry records batch as the decisions taken for snapshot s.
func NewEntry(session string, s *model.Snapshot, batch *model.OrderBatch) Entry {
	e := Entry{Session: session, Tick: s.Tick, Time: s.Time, Player: s.Player, Gold: s.Gold, Supply: s.Supply}
	if batch != nil {
		e.Orders = batch.Commands
	}
	return e
}

// Recorder receives tick entries.
type Recorder interface {
	Record(Entry) error
	Close() error
}

// Nop discards everything; used when tracing is off.
type Nop struct{}

func (Nop) Record(Entry) error { return nil }
func (Nop) Close() error       { return nil }

// Writer appends entries to a zstd-compressed JSONL file.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Path is where the trace for session lives under dir.
func Path(dir, session string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.jsonl.zst", session))
}

// Open creates the trace file for session under dir.
func Open(dir, session string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("trace dir: %w", err)
	}
	f, err := os.OpenFile(Path(dir, session), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("trace encoder: %w", err)
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (w *Writer) Record(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal trace entry: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return os.ErrClosed
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the compressed stream and closes the file. Closing twice is
// a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	return err
}

// Read decodes every entry from a trace stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("trace decoder: %w", err)
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("decode trace entry %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// ReadFile decodes the trace at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
