package service

import (
	"github.com/targetcar/user-system/internal/core/domain"
	"github.com/targetcar/user-system/internal/core/ports"
)

// Conversion between transfer DTOs and persisted entities. Partial-update
// semantics are defined here and nowhere else: a nil DTO field leaves the
// stored value unchanged, a non-nil field overwrites it.

func userToEntity(dto ports.UserDTO, passwordHash string) *domain.User {
	return &domain.User{
		Name:         strVal(dto.Name),
		Email:        strVal(dto.Email),
		PasswordHash: passwordHash,
	}
}

// userToDTO never copies the password hash.
func userToDTO(user *domain.User, addresses []domain.Address, phones []domain.Phone) ports.UserDTO {
	dto := ports.UserDTO{
		ID:    user.ID,
		Name:  strPtr(user.Name),
		Email: strPtr(user.Email),
	}
	for _, a := range addresses {
		dto.Addresses = append(dto.Addresses, addressToDTO(a))
	}
	for _, p := range phones {
		dto.Phones = append(dto.Phones, phoneToDTO(p))
	}
	return dto
}

// mergeUser overlays non-nil patch fields on the stored entity. The password
// never flows through the DTO directly: hashedPassword carries the already
// hashed replacement, or "" when the patch omitted it.
func mergeUser(patch ports.UserDTO, entity domain.User, hashedPassword string) domain.User {
	if patch.Name != nil {
		entity.Name = *patch.Name
	}
	if patch.Email != nil {
		entity.Email = *patch.Email
	}
	if hashedPassword != "" {
		entity.PasswordHash = hashedPassword
	}
	return entity
}

func addressToEntity(dto ports.AddressDTO, userID string) *domain.Address {
	return &domain.Address{
		UserID:     userID,
		Street:     strVal(dto.Street),
		Complement: strVal(dto.Complement),
		District:   strVal(dto.District),
		City:       strVal(dto.City),
		State:      strVal(dto.State),
		PostalCode: strVal(dto.PostalCode),
	}
}

func addressToDTO(a domain.Address) ports.AddressDTO {
	return ports.AddressDTO{
		ID:         a.ID,
		Street:     strPtr(a.Street),
		Complement: strPtr(a.Complement),
		District:   strPtr(a.District),
		City:       strPtr(a.City),
		State:      strPtr(a.State),
		PostalCode: strPtr(a.PostalCode),
	}
}

func mergeAddress(patch ports.AddressDTO, entity domain.Address) domain.Address {
	if patch.Street != nil {
		entity.Street = *patch.Street
	}
	if patch.Complement != nil {
		entity.Complement = *patch.Complement
	}
	if patch.District != nil {
		entity.District = *patch.District
	}
	if patch.City != nil {
		entity.City = *patch.City
	}
	if patch.State != nil {
		entity.State = *patch.State
	}
	if patch.PostalCode != nil {
		entity.PostalCode = *patch.PostalCode
	}
	return entity
}

func phoneToEntity(dto ports.PhoneDTO, userID string) *domain.Phone {
	return &domain.Phone{
		UserID: userID,
		Number: strVal(dto.Number),
		DDD:    strVal(dto.DDD),
	}
}

func phoneToDTO(p domain.Phone) ports.PhoneDTO {
	return ports.PhoneDTO{
		ID:     p.ID,
		Number: strPtr(p.Number),
		DDD:    strPtr(p.DDD),
	}
}

func mergePhone(patch ports.PhoneDTO, entity domain.Phone) domain.Phone {
	if patch.Number != nil {
		entity.Number = *patch.Number
	}
	if patch.DDD != nil {
		entity.DDD = *patch.DDD
	}
	return entity
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	return &s
}
