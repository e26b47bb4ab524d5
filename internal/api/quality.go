package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
)

const (
	uploadField    = "file"
	uploadFilename = "leaf.jpg"
	uploadMIME     = "image/jpeg"
)

// QualityResult is a leaf-quality prediction. Fields the contract does not
// name are kept verbatim in Extra.
type QualityResult struct {
	PredictedClass string
	Confidence     float64
	Extra          map[string]json.RawMessage
}

func (r *QualityResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("expected a JSON object")
	}

	rawClass, ok := fields["predicted_class"]
	if !ok {
		return errors.New(`missing field "predicted_class"`)
	}
	var class *string
	if err := json.Unmarshal(rawClass, &class); err != nil {
		return fmt.Errorf(`field "predicted_class": %w`, err)
	}
	if class == nil {
		return errors.New(`field "predicted_class" is null`)
	}

	rawConf, ok := fields["confidence"]
	if !ok {
		return errors.New(`missing field "confidence"`)
	}
	var conf *float64
	if err := json.Unmarshal(rawConf, &conf); err != nil {
		return fmt.Errorf(`field "confidence": %w`, err)
	}
	if conf == nil {
		return errors.New(`field "confidence" is null`)
	}

	delete(fields, "predicted_class")
	delete(fields, "confidence")
	if len(fields) == 0 {
		fields = nil
	}

	*r = QualityResult{PredictedClass: *class, Confidence: *conf, Extra: fields}
	return nil
}

func (r QualityResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["predicted_class"] = r.PredictedClass
	out["confidence"] = r.Confidence
	return json.Marshal(out)
}

// PredictQuality uploads the image at imagePath to /predict/leaf-quality as
// multipart part "file" (filename leaf.jpg, type image/jpeg). The image bytes
// are streamed, never inspected. A missing or unreadable file fails before
// any request is sent.
func (c *Client) PredictQuality(ctx context.Context, imagePath string) (*QualityResult, error) {
	fi, err := os.Stat(imagePath)
	if err != nil {
		return nil, transportErr(OpPredictQuality, fmt.Errorf("open image: %w", err))
	}
	if fi.IsDir() {
		return nil, transportErr(OpPredictQuality, fmt.Errorf("open image: %s is a directory", imagePath))
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, transportErr(OpPredictQuality, fmt.Errorf("open image: %w", err))
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		pw.CloseWithError(writeUpload(mw, f))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, pathQuality, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, transportErr(OpPredictQuality, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(OpPredictQuality, req)
	if err != nil {
		return nil, err
	}

	var res QualityResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, schemaErr(OpPredictQuality, "decode response: %v", err)
	}
	return &res, nil
}

func writeUpload(mw *multipart.Writer, src io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, uploadFilename))
	h.Set("Content-Type", uploadMIME)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("stream image: %w", err)
	}
	return mw.Close()
}
