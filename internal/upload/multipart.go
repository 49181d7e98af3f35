package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"dropstage/internal/domain"
)

// FormValue is one auxiliary scalar field of the outbound form, with the
// validation rule attached so the controller can check it before sending.
type FormValue struct {
	Name     string
	Value    string
	Required bool
}

// newPayload builds the multipart request body: the auxiliary scalar fields
// first, then one part per selected file under the shared field name, in
// snapshot order. File bytes are streamed through a pipe so the payload is
// never buffered whole in memory; any file open or copy error aborts the
// request through the pipe.
func newPayload(fileField string, fields []FormValue, files []domain.SelectedFile) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeParts(mw, fileField, fields, files)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeParts(mw *multipart.Writer, fileField string, fields []FormValue, files []domain.SelectedFile) error {
	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(fileField, f.Name)
		if err != nil {
			return fmt.Errorf("file %q: %w", f.Name, err)
		}
		src, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("open %q: %w", f.Name, err)
		}
		_, err = io.Copy(part, src)
		src.Close()
		if err != nil {
			return fmt.Errorf("read %q: %w", f.Name, err)
		}
	}

	return nil
}
