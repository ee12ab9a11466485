package noves

import "encoding/json"

type NativeCoin struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

type Chain struct {
	Name       string      `json:"name"`
	Ecosystem  string      `json:"ecosystem"`
	NativeCoin *NativeCoin `json:"nativeCoin,omitempty"`
}

type Protocol struct {
	Name string `json:"name"`
}

type Source struct {
	Type string `json:"type"`
}

type ClassificationData struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Protocol    *Protocol `json:"protocol,omitempty"`
	Source      *Source   `json:"source,omitempty"`
}

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Token struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address"`
}

type Transfer struct {
	Action string `json:"action"`
	From   Party  `json:"from"`
	To     Party  `json:"to"`
	Amount string `json:"amount"`
	Token  *Token `json:"token,omitempty"`
}

type TransactionFee struct {
	Amount string `json:"amount"`
	Token  *Token `json:"token,omitempty"`
}

type RawTransactionData struct {
	TransactionHash string          `json:"transactionHash"`
	FromAddress     string          `json:"fromAddress"`
	ToAddress       string          `json:"toAddress"`
	BlockNumber     int64           `json:"blockNumber"`
	Gas             int64           `json:"gas"`
	GasUsed         int64           `json:"gasUsed"`
	GasPrice        int64           `json:"gasPrice"`
	TransactionFee  *TransactionFee `json:"transactionFee,omitempty"`
	Timestamp       int64           `json:"timestamp"`
}

// Transaction is the Translate EVM transaction record. Raw keeps the exact
// upstream body so it can be forwarded without losing unknown fields.
type Transaction struct {
	TxTypeVersion      int                 `json:"txTypeVersion"`
	Chain              string              `json:"chain"`
	AccountAddress     string              `json:"accountAddress"`
	ClassificationData *ClassificationData `json:"classificationData,omitempty"`
	Transfers          []Transfer          `json:"transfers,omitempty"`
	RawTransactionData *RawTransactionData `json:"rawTransactionData,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type Description struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}
