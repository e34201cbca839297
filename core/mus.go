package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the document model. Timestamps are
// encoded as microseconds since the Unix epoch and restored in UTC.

var stringSliceMUS = ord.NewSliceSer[string](ord.String)

// DocumentMUS serializes Document values in MUS format.
var DocumentMUS = documentSer{}

type documentSer struct{}

func (documentSer) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.Uid, bs)
	n += ord.String.Marshal(d.Subject, bs[n:])
	n += ord.String.Marshal(d.Sender, bs[n:])
	n += ord.String.Marshal(d.Recipient, bs[n:])
	n += varint.Int64.Marshal(d.Date.UnixMicro(), bs[n:])
	n += ord.String.Marshal(d.BodyText, bs[n:])
	n += ord.String.Marshal(d.BodyHTML, bs[n:])
	n += ord.String.Marshal(d.Folder, bs[n:])
	n += stringSliceMUS.Marshal(d.Attachments, bs[n:])
	n += ord.String.Marshal(d.MessageId, bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.Uid, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.Subject, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Sender, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Recipient, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	var usec int64
	if usec, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	d.Date = time.UnixMicro(usec).UTC()
	if d.BodyText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.BodyHTML, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Folder, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Attachments, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.MessageId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return d, n, nil
}

func (documentSer) Size(d Document) (size int) {
	size = ord.String.Size(d.Uid)
	size += ord.String.Size(d.Subject)
	size += ord.String.Size(d.Sender)
	size += ord.String.Size(d.Recipient)
	size += varint.Int64.Size(d.Date.UnixMicro())
	size += ord.String.Size(d.BodyText)
	size += ord.String.Size(d.BodyHTML)
	size += ord.String.Size(d.Folder)
	size += stringSliceMUS.Size(d.Attachments)
	size += ord.String.Size(d.MessageId)
	return size
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
