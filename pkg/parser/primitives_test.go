package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ccollicutt/seqscan/pkg/alphabet"
	"github.com/ccollicutt/seqscan/pkg/seqio"
)

func newStream(t *testing.T, content string) *seqio.Stream {
	t.Helper()
	s, err := seqio.NewStream(strings.NewReader(content))
	if err != nil {
		t.Fatalf("NewStream() error = %v", err)
	}
	return s
}

// rest drains the stream so tests can check what a primitive left behind.
func rest(t *testing.T, s ByteStream) string {
	t.Helper()
	var out []byte
	for {
		c, err := s.ReadByte()
		if err == io.EOF {
			return string(out)
		}
		if err != nil {
			t.Fatalf("ReadByte() error = %v", err)
		}
		out = append(out, c)
	}
}

func formatError(t *testing.T, err error) *FormatError {
	t.Helper()
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("error = %v, want ErrFormat", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a *FormatError", err)
	}
	return fe
}

func TestCopyLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		remain  string
		wantErr bool
	}{
		{"line feed", "abc\nrest", "abc", "rest", false},
		{"crlf", "abc\r\nrest", "abc", "rest", false},
		{"end of stream", "abc", "abc", "", false},
		{"empty line", "\nrest", "", "rest", false},
		{"bare carriage return", "abc\rrest", "abc", "est", true},
		{"carriage return at end", "abc\r", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream(t, tt.input)
			got, err := copyLine(s, nil, rawText)
			if (err != nil) != tt.wantErr {
				t.Fatalf("copyLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				formatError(t, err)
			}
			if string(got) != tt.want {
				t.Errorf("copyLine() = %q, want %q", got, tt.want)
			}
			if r := rest(t, s); r != tt.remain {
				t.Errorf("remaining = %q, want %q", r, tt.remain)
			}
		})
	}
}

func TestCopyLine_LoneCarriageReturn(t *testing.T) {
	_, err := copyLine(newStream(t, "\r"), nil, rawText)
	fe := formatError(t, err)
	if fe.Offset != 1 {
		t.Errorf("Offset = %d, want 1", fe.Offset)
	}
	if fe.Found != endOfStream {
		t.Errorf("Found = %q, want %q", fe.Found, endOfStream)
	}
}

func TestCopyLine_SequenceData(t *testing.T) {
	s := newStream(t, "acgu\n")
	got, err := copyLine(s, nil, alphabet.Nucleotide.Encode)
	if err != nil {
		t.Fatalf("copyLine() error = %v", err)
	}
	if str := alphabet.Nucleotide.String(got); str != "ACGT" {
		t.Errorf("copyLine() = %q, want %q", str, "ACGT")
	}

	_, err = copyLine(newStream(t, "AC*T\n"), nil, alphabet.Nucleotide.Encode)
	if !errors.Is(err, alphabet.ErrInvalidCharacter) {
		t.Errorf("copyLine() error = %v, want ErrInvalidCharacter", err)
	}
	if errors.Is(err, ErrFormat) {
		t.Error("alphabet errors must not be reported as format violations")
	}
}

func TestCopyLine_Appends(t *testing.T) {
	got, err := copyLine(newStream(t, "def\n"), []byte("abc"), rawText)
	if err != nil {
		t.Fatalf("copyLine() error = %v", err)
	}
	if string(got) != "abcdef" {
		t.Errorf("copyLine() = %q, want %q", got, "abcdef")
	}
}

func TestSkipLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		remain  string
		wantErr bool
	}{
		{"line feed", "IIII\nnext", "next", false},
		{"crlf", "IIII\r\nnext", "next", false},
		{"end of stream", "IIII", "", false},
		{"bare carriage return", "II\rII", "I", true},
		{"carriage return at end", "II\r", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream(t, tt.input)
			err := skipLine(s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("skipLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if r := rest(t, s); r != tt.remain {
				t.Errorf("remaining = %q, want %q", r, tt.remain)
			}
		})
	}
}

func TestCopyUntil(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		remain string
	}{
		{"stops at marker", "ACGT\n>next", "ACGT", ">next"},
		{"multi-line", "AC\nGT\nNN\n>next", "ACGTNN", ">next"},
		{"crlf", "AC\r\nGT\r\n>next", "ACGT", ">next"},
		{"blank lines", "AC\n\n\nGT\n>next", "ACGT", ">next"},
		{"end of stream", "ACGT\n", "ACGT", ""},
		{"no trailing newline", "ACGT", "ACGT", ""},
		{"marker first", ">next", "", ">next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream(t, tt.input)
			got, err := copyUntil(s, '>', nil, alphabet.Nucleotide)
			if err != nil {
				t.Fatalf("copyUntil() error = %v", err)
			}
			if str := alphabet.Nucleotide.String(got); str != tt.want {
				t.Errorf("copyUntil() = %q, want %q", str, tt.want)
			}
			if r := rest(t, s); r != tt.remain {
				t.Errorf("remaining = %q, want %q", r, tt.remain)
			}
		})
	}
}

func TestCopyUntil_MarkerMidLine(t *testing.T) {
	_, err := copyUntil(newStream(t, "AC>GT\n"), '>', nil, alphabet.Nucleotide)
	fe := formatError(t, err)
	if fe.Offset != 2 {
		t.Errorf("Offset = %d, want 2", fe.Offset)
	}
	if fe.Found != `'>'` {
		t.Errorf("Found = %q, want %q", fe.Found, `'>'`)
	}
}

func TestCopyUntil_CarriageReturnDoesNotResetColumn(t *testing.T) {
	_, err := copyUntil(newStream(t, "AC\r>GT\n"), '>', nil, alphabet.Nucleotide)
	formatError(t, err)
}

func TestExpectChar(t *testing.T) {
	s := newStream(t, "+rest")
	if err := expectChar(s, '+'); err != nil {
		t.Fatalf("expectChar() error = %v", err)
	}
	if r := rest(t, s); r != "rest" {
		t.Errorf("remaining = %q, want %q", r, "rest")
	}

	fe := formatError(t, expectChar(newStream(t, "-"), '+'))
	if fe.Expected != `'+'` || fe.Found != `'-'` {
		t.Errorf("FormatError = %+v", fe)
	}

	fe = formatError(t, expectChar(newStream(t, ""), '+'))
	if fe.Found != endOfStream {
		t.Errorf("Found = %q, want %q", fe.Found, endOfStream)
	}
}

func TestProbeChar(t *testing.T) {
	ok, err := probeChar(newStream(t, ">a"), '>')
	if err != nil || !ok {
		t.Errorf("probeChar() = %v, %v; want true, nil", ok, err)
	}

	ok, err = probeChar(newStream(t, ""), '>')
	if err != nil || ok {
		t.Errorf("probeChar() at end = %v, %v; want false, nil", ok, err)
	}

	ok, err = probeChar(newStream(t, "@a"), '>')
	if ok {
		t.Error("probeChar() = true for mismatched marker")
	}
	formatError(t, err)
}

// plainStream is a ByteStream without position tracking.
type plainStream struct {
	data []byte
	pos  int
}

func (p *plainStream) ReadByte() (byte, error) {
	if p.pos >= len(p.data) {
		return 0, io.EOF
	}
	c := p.data[p.pos]
	p.pos++
	return c, nil
}

func (p *plainStream) PutBack(c byte) error {
	p.pos--
	return nil
}

func TestFormatError_NoOffset(t *testing.T) {
	err := expectChar(&plainStream{data: []byte("x")}, '+')
	fe := formatError(t, err)
	if fe.Offset != -1 {
		t.Errorf("Offset = %d, want -1", fe.Offset)
	}
	if strings.Contains(fe.Error(), "at byte") {
		t.Errorf("Error() = %q should not mention a byte offset", fe.Error())
	}
}
