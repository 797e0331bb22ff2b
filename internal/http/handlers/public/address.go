package public

import (
	"strconv"

	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址请求
type AddressRequest struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	IsPrimary  bool   `json:"is_primary"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Label:      r.Label,
		Recipient:  r.Recipient,
		Phone:      r.Phone,
		Street:     r.Street,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
		IsPrimary:  r.IsPrimary,
	}
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: "address not found"},
}

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "address list failed", err)
		return
	}
	response.Success(c, gin.H{"items": addresses})
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address create failed")
		return
	}
	response.Success(c, gin.H{"address": address})
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseAddressID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	address, err := h.AddressService.Update(uid, id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address update failed")
		return
	}
	response.Success(c, gin.H{"address": address})
}

// SetPrimaryAddress 设为默认地址
func (h *Handler) SetPrimaryAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := h.AddressService.SetPrimary(uid, id); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address set primary failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := h.AddressService.Delete(uid, id); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "address delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func parseAddressID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid address id", nil)
		return 0, false
	}
	return uint(id), true
}
