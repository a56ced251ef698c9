package domain

// PostalAddress is the structured result of a CEP lookup against the ViaCEP
// directory. JSON field names follow the directory's own contract.
type PostalAddress struct {
	Cep        string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	Unit       string `json:"unidade"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	UF         string `json:"uf"`
	State      string `json:"estado"`
	Region     string `json:"regiao"`
	IBGECode   string `json:"ibge"`
	GIACode    string `json:"gia"`
	AreaCode   string `json:"ddd"`
	SIAFICode  string `json:"siafi"`
}
