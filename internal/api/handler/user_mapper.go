package handler

import (
	"github.com/targetcar/user-system/internal/core/ports"
)

// --- Request → Service DTO ---

func toRegisterDTO(req registerUserRequest) ports.UserDTO {
	return ports.UserDTO{
		Name:     &req.Name,
		Email:    &req.Email,
		Password: &req.Senha,
	}
}

func toLoginDTO(req loginRequest) ports.UserDTO {
	return ports.UserDTO{
		Email:    &req.Email,
		Password: &req.Senha,
	}
}

func toUserPatch(req updateUserRequest) ports.UserDTO {
	return ports.UserDTO{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Senha,
	}
}

func toAddressDTO(req registerAddressRequest) ports.AddressDTO {
	return ports.AddressDTO{
		Street:     &req.Rua,
		Complement: &req.Complemento,
		District:   &req.Bairro,
		City:       &req.Cidade,
		State:      &req.Estado,
		PostalCode: &req.Cep,
	}
}

func toAddressPatch(req updateAddressRequest) ports.AddressDTO {
	return ports.AddressDTO{
		Street:     req.Rua,
		Complement: req.Complemento,
		District:   req.Bairro,
		City:       req.Cidade,
		State:      req.Estado,
		PostalCode: req.Cep,
	}
}

func toPhoneDTO(req registerPhoneRequest) ports.PhoneDTO {
	return ports.PhoneDTO{
		Number: &req.Numero,
		DDD:    &req.DDD,
	}
}

func toPhonePatch(req updatePhoneRequest) ports.PhoneDTO {
	return ports.PhoneDTO{
		Number: req.Numero,
		DDD:    req.DDD,
	}
}

// --- Service DTO → HTTP response ---

func toUserResponse(d *ports.UserDTO) userResponse {
	resp := userResponse{
		ID:    d.ID,
		Name:  deref(d.Name),
		Email: deref(d.Email),
	}
	for _, a := range d.Addresses {
		resp.Enderecos = append(resp.Enderecos, toAddressResponse(&a))
	}
	for _, p := range d.Phones {
		resp.Telefones = append(resp.Telefones, toPhoneResponse(&p))
	}
	return resp
}

func toAddressResponse(d *ports.AddressDTO) addressResponse {
	return addressResponse{
		ID:          d.ID,
		Rua:         deref(d.Street),
		Complemento: deref(d.Complement),
		Bairro:      deref(d.District),
		Cidade:      deref(d.City),
		Estado:      deref(d.State),
		Cep:         deref(d.PostalCode),
	}
}

func toPhoneResponse(d *ports.PhoneDTO) phoneResponse {
	return phoneResponse{
		ID:     d.ID,
		Numero: deref(d.Number),
		DDD:    deref(d.DDD),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
