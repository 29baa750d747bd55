package api

import (
	"net/http"
	"strconv"

	"toolstation/codec"
	"toolstation/convert"
	"toolstation/format"
	"toolstation/imagetool"
	"toolstation/jstext"
	"toolstation/passgen"
	"toolstation/qrcode"
	"toolstation/textmetric"
	"toolstation/toolerr"
)

type textRequest struct {
	Text   string `json:"text"`
	Kind   string `json:"kind,omitempty"`
	Indent int    `json:"indent,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (h *handler) textMetrics(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	m := textmetric.Compute(req.Text)
	h.recordUsage(r, int64(m.CharsWithSpace), 0)
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) textConvert(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	k, err := convert.ParseKind(req.Kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.transform(w, r, req.Text, func(s string) (string, error) { return convert.Convert(s, k) })
}

func (h *handler) formatJSON(w http.ResponseWriter, r *http.Request) {
	req := textRequest{Indent: format.Indent2}
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.transform(w, r, req.Text, func(s string) (string, error) { return format.JSON(s, req.Indent) })
}

func (h *handler) formatSQL(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.transform(w, r, req.Text, format.SQL)
}

func (h *handler) base64(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := codec.ParseMode(req.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.transform(w, r, req.Text, func(s string) (string, error) { return codec.Convert(s, m) })
}

// transform runs fn on text and answers {text}, charging the input length.
func (h *handler) transform(w http.ResponseWriter, r *http.Request, text string, fn func(string) (string, error)) {
	out, err := fn(text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordUsage(r, int64(jstext.Len(text)), 0)
	writeJSON(w, http.StatusOK, textResponse{Text: out})
}

func (h *handler) password(w http.ResponseWriter, r *http.Request) {
	opts := passgen.DefaultOptions()
	if err := h.decodeBody(w, r, &opts); err != nil {
		h.fail(w, r, err)
		return
	}
	pw, err := passgen.Generate(opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordUsage(r, 0, 0)
	writeJSON(w, http.StatusOK, map[string]string{"password": pw})
}

func (h *handler) qr(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		qrcode.Options
	}
	if err := h.decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := qrcode.PNG(req.Content, req.Options)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordUsage(r, int64(jstext.Len(req.Content)), 0)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *handler) imageConvert(w http.ResponseWriter, r *http.Request) {
	f, err := imagetool.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := imagetool.Convert(data, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordUsage(r, 0, 0)
	writeImage(w, res)
}

func (h *handler) imageCompress(w http.ResponseWriter, r *http.Request) {
	quality := imagetool.DefaultQuality
	if q := r.URL.Query().Get("quality"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil {
			h.fail(w, r, toolerr.ErrInvalidOption)
			return
		}
		quality = v
	}
	data, err := h.readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := imagetool.Compress(data, quality)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.recordUsage(r, 0, res.Saved())
	w.Header().Set("X-Saved-Bytes", strconv.FormatInt(res.Saved(), 10))
	writeImage(w, res)
}

func writeImage(w http.ResponseWriter, res imagetool.Result) {
	w.Header().Set("Content-Type", res.Format.MIME())
	w.Header().Set("Content-Length", strconv.Itoa(res.Size))
	w.Header().Set("X-Original-Size", strconv.Itoa(res.OriginalSize))
	_, _ = w.Write(res.Data)
}
