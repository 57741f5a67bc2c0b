package api

import (
	"net/http"

	"tailorder-be/internal/catalog"
	"tailorder-be/internal/utils"
)

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.catalog.Companies(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	if companies == nil {
		companies = []*catalog.Company{}
	}
	utils.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var input catalog.NewCompany
	if err := decode(r, &input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.catalog.CreateCompany(r.Context(), input)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	var input catalog.NewCompany
	if err := decode(r, &input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.catalog.UpdateCompany(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCompany(r.Context(), r.PathValue("id")); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var companyID *string
	if v := r.URL.Query().Get("company_id"); v != "" {
		companyID = &v
	}

	products, err := h.catalog.Products(r.Context(), companyID)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.NewProduct
	if err := decode(r, &input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.NewProduct
	if err := decode(r, &input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
