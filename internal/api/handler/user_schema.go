package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---
// Update requests use pointer fields: an absent JSON field stays nil and the
// stored value is left unchanged.

type registerUserRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Senha *string `json:"senha"`
}

type registerAddressRequest struct {
	Rua         string `json:"rua"    validate:"required"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro" validate:"required"`
	Cidade      string `json:"cidade" validate:"required"`
	Estado      string `json:"estado" validate:"required,len=2"`
	Cep         string `json:"cep"    validate:"required"`
}

type updateAddressRequest struct {
	Rua         *string `json:"rua"`
	Complemento *string `json:"complemento"`
	Bairro      *string `json:"bairro"`
	Cidade      *string `json:"cidade"`
	Estado      *string `json:"estado"`
	Cep         *string `json:"cep"`
}

type registerPhoneRequest struct {
	Numero string `json:"numero" validate:"required"`
	DDD    string `json:"ddd"    validate:"required"`
}

type updatePhoneRequest struct {
	Numero *string `json:"numero"`
	DDD    *string `json:"ddd"`
}

// --- Response types ---
// Deliberately separate from ports DTOs so the JSON contract is not coupled
// to internal service changes. No response ever carries a password field.

type userResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Enderecos []addressResponse `json:"enderecos,omitempty"`
	Telefones []phoneResponse   `json:"telefones,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type addressResponse struct {
	ID          string `json:"id"`
	Rua         string `json:"rua"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
	Cep         string `json:"cep"`
}

type phoneResponse struct {
	ID     string `json:"id"`
	Numero string `json:"numero"`
	DDD    string `json:"ddd"`
}
