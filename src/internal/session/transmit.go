// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package session

import (
	"bufio"
	"fmt"
	"io"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/logger"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single input line (1 MiB).
const maxLineSize = 1 << 20

// ResolveEncoding maps an IANA charset name to its encoding. The empty
// name and "utf-8" both mean UTF-8, which needs no transformation on the
// wire. Unknown names return an error so the caller can fall back.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("session: unknown encoding %q", name)
	}
	return enc, nil
}

// Transmit reads in line by line and writes each line, encoded and
// newline-terminated, over the established session. Every line is
// written with a single Write call so interactive latency stays
// predictable; nothing is batched.
//
// Transmit returns nil on end-of-input and ErrTransmission on any read
// or write failure; a single I/O error ends the run, nothing is retried.
// The session is closed on every return path: Closed after end-of-input,
// Failed after an I/O error.
func (s *Session) Transmit(in io.Reader, enc encoding.Encoding, log logger.Logger) error {
	if s.state != HandshakeComplete {
		return fmt.Errorf("%w: state %s", ErrNotEstablished, s.state)
	}
	defer s.Close()

	var encoder *encoding.Encoder
	if enc != nil && enc != unicode.UTF8 {
		encoder = enc.NewEncoder()
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if encoder != nil {
			encoded, _, err := transform.String(encoder, line)
			if err != nil {
				// The charset cannot represent this line; send it as-is
				// rather than dropping it.
				log.Printf("Warning: encoding failed, sending raw line: %v", err)
			} else {
				line = encoded
			}
		}

		buf.Reset()
		buf.WriteString(line)
		buf.WriteByte('\n')

		if _, err := s.conn.Write(buf.Bytes()); err != nil {
			log.Printf("Error: %v", err)
			s.state = Failed
			return fmt.Errorf("%w: %v", ErrTransmission, err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error: %v", err)
		s.state = Failed
		return fmt.Errorf("%w: %v", ErrTransmission, err)
	}
	return nil
}
