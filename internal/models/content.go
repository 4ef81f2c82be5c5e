package models

type BlockKind string

const (
	BlockDocument BlockKind = "document"
	BlockText     BlockKind = "text"
)

// ContentBlock is one unit of prompt content: a reference to a file held by the
// remote provider, or inline text.
type ContentBlock struct {
	Kind         BlockKind
	RemoteFileID string
	MIMEType     string
	Title        string
	Text         string
}

func DocumentBlock(remoteFileID, mimeType, title string) ContentBlock {
	return ContentBlock{Kind: BlockDocument, RemoteFileID: remoteFileID, MIMEType: mimeType, Title: title}
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockText, Text: text}
}
