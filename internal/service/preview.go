// Preview thumbnail generation for the inline photo gallery in lead
// notification emails. Full-size photos still travel as attachments; the
// previews only keep the HTML body small.
package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"strings"

	"github.com/disintegration/imaging"
)

var errMalformedURI = errors.New("malformed data URI")

const (
	// previewMaxDim bounds both preview dimensions while preserving aspect ratio.
	previewMaxDim = 240

	// previewJPEGQuality is the JPEG encoding quality for previews.
	previewJPEGQuality = 85
)

// PreviewImages converts submitted data URIs into small inline preview
// thumbnails, returned as JPEG data URIs. Any image that cannot be decoded
// or re-encoded falls back to its original data URI unchanged, so preview
// generation never fails a submission.
func PreviewImages(images []string) []template.URL {
	if len(images) == 0 {
		return nil
	}

	previews := make([]template.URL, 0, len(images))
	for _, img := range images {
		preview, err := previewDataURI(img)
		if err != nil {
			preview = template.URL(img)
		}
		previews = append(previews, preview)
	}
	return previews
}

// previewDataURI decodes one data URI, fits the image within
// previewMaxDim x previewMaxDim, and re-encodes it as a JPEG data URI.
func previewDataURI(uri string) (template.URL, error) {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", errMalformedURI
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	thumb := imaging.Fit(img, previewMaxDim, previewMaxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(previewJPEGQuality)); err != nil {
		return "", err
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return template.URL("data:image/jpeg;base64," + encoded), nil
}
