package document

// Flat-map conversion. ToMap is lossless; FromMap reconstructs an equivalent
// value, substituting zero-value defaults for absent keys: "" for text
// fields, 0/0.0 for numeric fields, empty sequences for list fields. No
// validation happens here; each stage validates what it consumes.
//
// FromMap accepts both in-memory maps produced by ToMap and maps decoded
// from JSON, where numbers arrive as float64 and nested structs as
// map[string]any.

// ToMap converts the Document to a flat serializable map.
func (d *Document) ToMap() map[string]any {
	chunks := make([]any, 0, len(d.Chunks))
	for i := range d.Chunks {
		chunks = append(chunks, d.Chunks[i].ToMap())
	}
	chunkInfo := make([]any, 0, len(d.ChunkInfo))
	for i := range d.ChunkInfo {
		chunkInfo = append(chunkInfo, fragmentToMap(d.ChunkInfo[i]))
	}
	return map[string]any{
		"uuid":            d.UUID,
		"name":            d.Name,
		"type":            d.Type,
		"text":            d.Text,
		"path":            d.Path,
		"link":            d.Link,
		"timestamp":       d.Timestamp,
		"reader":          d.Reader,
		"tags":            stringsToAny(d.Tags),
		"example_images":  stringsToAny(d.ExampleImages),
		"template_images": stringsToAny(d.TemplateImages),
		"metadata":        copyMap(d.Metadata),
		"chunk_info":      chunkInfo,
		"chunks":          chunks,
	}
}

// FromMap reconstructs a Document from a flat map.
func FromMap(data map[string]any) *Document {
	d := New()
	d.UUID = asString(data["uuid"])
	d.Name = asString(data["name"])
	d.Type = asString(data["type"])
	d.Text = asString(data["text"])
	d.Path = asString(data["path"])
	d.Link = asString(data["link"])
	d.Timestamp = asString(data["timestamp"])
	d.Reader = asString(data["reader"])
	d.Tags = asStringSlice(data["tags"])
	d.ExampleImages = asStringSlice(data["example_images"])
	d.TemplateImages = asStringSlice(data["template_images"])
	d.Metadata = asMap(data["metadata"])
	for _, raw := range asSlice(data["chunk_info"]) {
		if m, ok := raw.(map[string]any); ok {
			d.ChunkInfo = append(d.ChunkInfo, FragmentFromMap(m))
		}
	}
	for _, raw := range asSlice(data["chunks"]) {
		if m, ok := raw.(map[string]any); ok {
			d.Chunks = append(d.Chunks, ChunkFromMap(m))
		}
	}
	return d
}

// ToMap converts the Chunk to a flat serializable map.
func (c Chunk) ToMap() map[string]any {
	return map[string]any{
		"text":        c.Text,
		"doc_name":    c.DocName,
		"doc_type":    c.DocType,
		"doc_uuid":    c.DocUUID,
		"chunk_id":    c.ChunkID,
		"tokens":      c.Tokens,
		"vector":      vectorToAny(c.Vector),
		"score":       c.Score,
		"public_id":   c.PublicID,
		"tags":        c.Tags,
		"start":       c.Start,
		"end":         c.End,
		"confidence":  c.Confidence,
		"channel":     c.Channel,
		"speaker":     c.Speaker,
		"original_id": c.OriginalID,
		"words":       wordsToAny(c.Words),
		"meta":        copyMap(c.Meta),
	}
}

// ChunkFromMap reconstructs a Chunk from a flat map.
func ChunkFromMap(data map[string]any) Chunk {
	c := NewChunk()
	c.Text = asString(data["text"])
	c.DocName = asString(data["doc_name"])
	c.DocType = asString(data["doc_type"])
	c.DocUUID = asString(data["doc_uuid"])
	c.ChunkID = asString(data["chunk_id"])
	c.Tokens = asInt(data["tokens"])
	c.Vector = asVector(data["vector"])
	c.Score = asFloat(data["score"])
	c.PublicID = asString(data["public_id"])
	c.Tags = asString(data["tags"])
	c.Start = asFloat(data["start"])
	c.End = asFloat(data["end"])
	c.Confidence = asFloat(data["confidence"])
	c.Channel = asInt(data["channel"])
	c.Speaker = asString(data["speaker"])
	c.OriginalID = asString(data["original_id"])
	c.Words = asWords(data["words"])
	c.Meta = asMap(data["meta"])
	return c
}

func fragmentToMap(f FragmentInfo) map[string]any {
	return map[string]any{
		"chunk_id":    f.ChunkID,
		"transcript":  f.Transcript,
		"text":        f.Text,
		"public_id":   f.PublicID,
		"tags":        f.Tags,
		"doc_name":    f.DocName,
		"doc_type":    f.DocType,
		"doc_uuid":    f.DocUUID,
		"start":       f.Start,
		"end":         f.End,
		"confidence":  f.Confidence,
		"channel":     f.Channel,
		"speaker":     f.Speaker,
		"original_id": f.OriginalID,
		"duration":    f.Duration,
		"words":       wordsToAny(f.Words),
		"meta":        copyMap(f.Meta),
	}
}

// FragmentFromMap reconstructs a FragmentInfo from a flat map.
func FragmentFromMap(data map[string]any) FragmentInfo {
	return FragmentInfo{
		ChunkID:    asString(data["chunk_id"]),
		Transcript: asString(data["transcript"]),
		Text:       asString(data["text"]),
		PublicID:   asString(data["public_id"]),
		Tags:       asString(data["tags"]),
		DocName:    asString(data["doc_name"]),
		DocType:    asString(data["doc_type"]),
		DocUUID:    asString(data["doc_uuid"]),
		Start:      asFloat(data["start"]),
		End:        asFloat(data["end"]),
		Confidence: asFloat(data["confidence"]),
		Channel:    asInt(data["channel"]),
		Speaker:    asString(data["speaker"]),
		OriginalID: asString(data["original_id"]),
		Duration:   asFloat(data["duration"]),
		Words:      asWords(data["words"]),
		Meta:       asMap(data["meta"]),
	}
}

func stringsToAny(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func vectorToAny(vec []float32) []any {
	out := make([]any, 0, len(vec))
	for _, v := range vec {
		out = append(out, float64(v))
	}
	return out
}

func wordsToAny(words []Word) []any {
	out := make([]any, 0, len(words))
	for _, w := range words {
		out = append(out, map[string]any{
			"word":       w.Word,
			"start":      w.Start,
			"end":        w.End,
			"confidence": w.Confidence,
		})
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	}
	return 0
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asStringSlice(v any) []string {
	raw := asSlice(v)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asVector(v any) []float32 {
	raw := asSlice(v)
	out := make([]float32, 0, len(raw))
	for _, item := range raw {
		out = append(out, float32(asFloat(item)))
	}
	return out
}

func asWords(v any) []Word {
	raw := asSlice(v)
	out := make([]Word, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Word{
				Word:       asString(m["word"]),
				Start:      asFloat(m["start"]),
				End:        asFloat(m["end"]),
				Confidence: asFloat(m["confidence"]),
			})
		}
	}
	return out
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return copyMap(m)
	}
	return map[string]any{}
}
