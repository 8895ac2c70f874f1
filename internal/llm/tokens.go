package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var encoders sync.Map // model or encoding name -> *tiktoken.Tiktoken

// estimateTokens counts tokens with the model's tokenizer, falling back to
// the cl100k encoder and finally to a bytes/4 heuristic when the encoder
// data cannot be loaded.
func estimateTokens(model, text string) int {
	if enc := encoderFor(model); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

func encoderFor(model string) *tiktoken.Tiktoken {
	key := model
	if key == "" {
		key = fallbackEncoding
	}
	if cached, ok := encoders.Load(key); ok {
		return cached.(*tiktoken.Tiktoken)
	}

	var enc *tiktoken.Tiktoken
	var err error
	if model != "" {
		enc, err = tiktoken.EncodingForModel(model)
	}
	if model == "" || err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return nil
	}
	encoders.Store(key, enc)
	return enc
}
