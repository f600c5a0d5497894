package mcpadapter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
)

// ServeStdio reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is cancelled — the shape
// every MCP client launches a subprocess adapter with.
func (a *Adapter) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if werr := writeResponse(w, errorResponse(nil, codeParseError, "Parse error", err.Error())); werr != nil {
				return werr
			}
			continue
		}

		resp := a.Handle(ctx, &req)
		if resp == nil {
			continue
		}
		if err := writeResponse(w, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeResponse(w io.Writer, resp *Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	body = append(body, '\n')
	_, err = w.Write(body)
	return err
}
