package entity

// Client owns one or more cards
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	CPF  string `json:"cpf"`
	UF   string `json:"uf"`
}
