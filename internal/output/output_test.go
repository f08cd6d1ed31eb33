package output

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))
	if p.Writer() != &buf {
		t.Error("Writer() should return the writer given to WithPrinter")
	}

	if FromContext(context.Background()).Writer() != os.Stdout {
		t.Error("Printer should default to os.Stdout")
	}
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)
	p.Print("ci-status: ")
	p.Printf("%s\n", "success")
	p.Println("https://github.com/defunkt/hub/pull/1")

	want := "ci-status: success\nhttps://github.com/defunkt/hub/pull/1\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrinter_Styled(t *testing.T) {
	t.Parallel()

	const bold = "\x1b[1msuccess\x1b[0m"

	tests := []struct {
		name    string
		environ []string
		want    string
	}{
		{"pipe drops styling", []string{"TERM=xterm-256color"}, "success\n"},
		{"forced colors keep styling", []string{"TERM=xterm-256color", "COLORTERM=truecolor", "CLICOLOR_FORCE=1"}, bold + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			p := New(&buf)
			p.SetEnviron(tt.environ)
			if _, err := io.WriteString(p.Styled(), bold+"\n"); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
