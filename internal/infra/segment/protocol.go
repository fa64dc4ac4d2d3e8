// Package segment drives the exhibit's physical score and battery displays:
// a 4-digit 7-segment module and a 10-segment bargraph hanging off a small
// display controller on a serial line.
package segment

import (
	"fmt"
)

// Wire framing. Each frame is STX, a command byte, an ASCII payload, an XOR
// checksum over command+payload, ETX.
const (
	frameSTX = 0x02
	frameETX = 0x03

	// CmdScore carries a 4-digit zero-padded score.
	CmdScore = 'S'
	// CmdBargraph carries a 2-digit bargraph level (00-10).
	CmdBargraph = 'B'
	// CmdClear blanks both displays; empty payload.
	CmdClear = 'X'
)

// checksum XOR-folds the command byte and payload.
func checksum(cmd byte, payload []byte) byte {
	c := cmd
	for _, b := range payload {
		c ^= b
	}
	return c
}

// encodeFrame assembles one wire frame.
func encodeFrame(cmd byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+4)
	frame = append(frame, frameSTX, cmd)
	frame = append(frame, payload...)
	frame = append(frame, checksum(cmd, payload), frameETX)
	return frame
}

// EncodeScore builds the frame for the 4-digit score display. Scores above
// 9999 saturate; the display has no fifth digit.
func EncodeScore(score int) []byte {
	if score < 0 {
		score = 0
	}
	if score > 9999 {
		score = 9999
	}
	return encodeFrame(CmdScore, []byte(fmt.Sprintf("%04d", score)))
}

// EncodeBargraph builds the frame for the SoC bargraph (level 0-10).
func EncodeBargraph(level int) []byte {
	if level < 0 {
		level = 0
	}
	if level > 10 {
		level = 10
	}
	return encodeFrame(CmdBargraph, []byte(fmt.Sprintf("%02d", level)))
}

// EncodeClear builds the blank-everything frame.
func EncodeClear() []byte {
	return encodeFrame(CmdClear, nil)
}
