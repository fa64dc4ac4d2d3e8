package segment

import (
	"bytes"
	"sync"
	"testing"

	"github.com/energiepark/moonshot/internal/platform/logger"
)

func TestEncodeScoreFrame(t *testing.T) {
	frame := EncodeScore(150)

	if frame[0] != frameSTX || frame[len(frame)-1] != frameETX {
		t.Fatalf("frame not delimited: % x", frame)
	}
	if frame[1] != CmdScore {
		t.Errorf("command byte = %c, want %c", frame[1], CmdScore)
	}
	if got := string(frame[2:6]); got != "0150" {
		t.Errorf("payload = %q, want zero-padded 0150", got)
	}
	if frame[6] != checksum(CmdScore, []byte("0150")) {
		t.Errorf("checksum mismatch: % x", frame)
	}
}

func TestEncodeScoreSaturates(t *testing.T) {
	if got := string(EncodeScore(123456)[2:6]); got != "9999" {
		t.Errorf("overflow payload = %q, want 9999", got)
	}
	if got := string(EncodeScore(-5)[2:6]); got != "0000" {
		t.Errorf("negative payload = %q, want 0000", got)
	}
}

func TestEncodeBargraphRange(t *testing.T) {
	for level, want := range map[int]string{0: "00", 7: "07", 10: "10", 15: "10", -1: "00"} {
		if got := string(EncodeBargraph(level)[2:4]); got != want {
			t.Errorf("EncodeBargraph(%d) payload = %q, want %q", level, got, want)
		}
	}
}

func TestChecksumDetectsCorruption(t *testing.T) {
	frame := EncodeScore(1234)
	payload := frame[2 : len(frame)-2]
	sum := frame[len(frame)-2]

	corrupted := append([]byte{}, payload...)
	corrupted[0] ^= 0x01
	if checksum(frame[1], corrupted) == sum {
		t.Error("checksum did not change for corrupted payload")
	}
}

// closableBuffer gives the display writer an in-memory port.
type closableBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *closableBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *closableBuffer) Close() error { return nil }

func (b *closableBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte{}, b.buf.Bytes()...)
}

func TestDisplayWritesFrames(t *testing.T) {
	port := &closableBuffer{}
	d := newDisplay(port, logger.NewLogger())

	d.DisplayScore(42)
	d.DisplaySoC(5)
	d.ShutdownAll()
	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	want := append(EncodeScore(42), EncodeBargraph(5)...)
	want = append(want, EncodeClear()...)
	if got := port.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wire bytes = % x, want % x", got, want)
	}
}
