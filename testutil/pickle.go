package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
)

// Doc is one document in a fixture docstore.
type Doc struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// WriteDocstore writes a serialized docstore companion holding the pair
// (docstore, positionToDocID), with position i mapped to docs[i].ID. The
// layout matches what the LangChain FAISS wrapper persists.
func WriteDocstore(path string, docs []Doc) error {
	var w pickleWriter
	w.proto()

	// Docstore object with state {"_dict": {id: Document}}.
	w.global("langchain_community.docstore.in_memory", "InMemoryDocstore")
	w.emptyTuple()
	w.newObj()
	w.emptyDict()
	w.str("_dict")
	w.emptyDict()
	w.mark()
	for _, d := range docs {
		w.str(d.ID)
		if err := w.document(d); err != nil {
			return err
		}
	}
	w.setItems()
	w.setItem()
	w.build()

	// Position map {int: id}.
	w.emptyDict()
	w.mark()
	for i, d := range docs {
		w.int(i)
		w.str(d.ID)
	}
	w.setItems()

	w.tuple2()
	w.stop()
	return os.WriteFile(path, w.buf.Bytes(), 0o600)
}

// WriteRawPickle writes raw bytes, for fixtures that must fail to decode.
func WriteRawPickle(path string, raw []byte) error {
	return os.WriteFile(path, raw, 0o600)
}

// pickleWriter emits protocol-2 pickle opcodes.
type pickleWriter struct {
	buf bytes.Buffer
}

func (w *pickleWriter) proto() {
	w.buf.Write([]byte{0x80, 2})
}

func (w *pickleWriter) global(module, name string) {
	w.buf.WriteByte('c')
	w.buf.WriteString(module)
	w.buf.WriteByte('\n')
	w.buf.WriteString(name)
	w.buf.WriteByte('\n')
}

func (w *pickleWriter) emptyTuple() { w.buf.WriteByte(')') }
func (w *pickleWriter) newObj()     { w.buf.WriteByte(0x81) }
func (w *pickleWriter) emptyDict()  { w.buf.WriteByte('}') }
func (w *pickleWriter) mark()       { w.buf.WriteByte('(') }
func (w *pickleWriter) setItems()   { w.buf.WriteByte('u') }
func (w *pickleWriter) setItem()    { w.buf.WriteByte('s') }
func (w *pickleWriter) build()      { w.buf.WriteByte('b') }
func (w *pickleWriter) tuple2()     { w.buf.WriteByte(0x86) }
func (w *pickleWriter) none()       { w.buf.WriteByte('N') }
func (w *pickleWriter) stop()       { w.buf.WriteByte('.') }

func (w *pickleWriter) str(s string) {
	w.buf.WriteByte('X')
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(s)))
	w.buf.Write(b[:])
	w.buf.WriteString(s)
}

func (w *pickleWriter) int(v int) {
	w.buf.WriteByte('J')
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	w.buf.Write(b[:])
}

func (w *pickleWriter) float(v float64) {
	w.buf.WriteByte('G')
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *pickleWriter) bool(v bool) {
	if v {
		w.buf.WriteByte(0x88)
	} else {
		w.buf.WriteByte(0x89)
	}
}

func (w *pickleWriter) value(v any) error {
	switch x := v.(type) {
	case nil:
		w.none()
	case string:
		w.str(x)
	case int:
		w.int(x)
	case int64:
		w.int(int(x))
	case float64:
		w.float(x)
	case bool:
		w.bool(x)
	default:
		return fmt.Errorf("unsupported fixture metadata value %T", v)
	}
	return nil
}

// document emits a Document object with pydantic-style state, attributes
// nested under "__dict__".
func (w *pickleWriter) document(d Doc) error {
	w.global("langchain_core.documents.base", "Document")
	w.emptyTuple()
	w.newObj()

	w.emptyDict()
	w.str("__dict__")
	w.emptyDict()
	w.mark()
	w.str("page_content")
	w.str(d.Text)
	w.str("metadata")
	w.emptyDict()
	w.mark()
	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.str(k)
		if err := w.value(d.Metadata[k]); err != nil {
			return err
		}
	}
	w.setItems()
	w.setItems()
	w.setItem()
	w.build()
	return nil
}
