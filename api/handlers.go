package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/jonwraymond/catalogapi/auth"
	"github.com/jonwraymond/catalogapi/catalog"
)

// maxPhotoBytes bounds multipart photo uploads.
const maxPhotoBytes = 10 << 20

// Handlers carries the dependencies of every request handler.
type Handlers struct {
	store  catalog.Store
	issuer *auth.Issuer
}

// NewHandlers creates the handler set.
func NewHandlers(store catalog.Store, issuer *auth.Issuer) *Handlers {
	return &Handlers{store: store, issuer: issuer}
}

// tokenResponse is the body returned by a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// Token exchanges a username/password pair for a signed bearer token.
// Credentials arrive as form fields or as a JSON body; a bad pair yields a
// plain-text 400 that does not say which half was wrong.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	username, password, ok := loginCredentials(r)
	if !ok {
		http.Error(w, "Invalid username or password.", http.StatusBadRequest)
		return
	}

	token, err := h.issuer.Issue(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "Invalid username or password.", http.StatusBadRequest)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, Username: username})
}

func loginCredentials(r *http.Request) (username, password string, ok bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", "", false
		}
		return body.Username, body.Password, body.Username != "" && body.Password != ""
	}

	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	username = r.PostFormValue("username")
	password = r.PostFormValue("password")
	return username, password, username != "" && password != ""
}

func (h *Handlers) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.store.ListVendors(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vendors)
}

func (h *Handlers) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	vendor, err := h.store.GetVendor(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) AddVendor(w http.ResponseWriter, r *http.Request) {
	var in catalog.Vendor
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = 0

	vendor, err := h.store.AddVendor(r.Context(), in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("%s/%d", r.URL.Path, vendor.ID))
	respondJSON(w, http.StatusCreated, vendor)
}

func (h *Handlers) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	var in catalog.Vendor
	if !decodeBody(w, r, &in) {
		return
	}

	vendor, err := h.store.UpdateVendor(r.Context(), in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteVendor(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.store.ListProducts(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func productFilter(r *http.Request) (catalog.ProductFilter, error) {
	q := r.URL.Query()
	filter := catalog.ProductFilter{Name: q.Get("name")}

	for _, spec := range []struct {
		key string
		dst *float64
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		if raw := q.Get(spec.key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return catalog.ProductFilter{}, fmt.Errorf("invalid %s", spec.key)
			}
			*spec.dst = v
		}
	}

	for _, spec := range []struct {
		key string
		dst *int
	}{
		{"start", &filter.Start},
		{"count", &filter.Count},
	} {
		if raw := q.Get(spec.key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return catalog.ProductFilter{}, fmt.Errorf("invalid %s", spec.key)
			}
			*spec.dst = v
		}
	}

	return filter, nil
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Product
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = 0

	product, err := h.store.AddProduct(r.Context(), in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("%s/%d", r.URL.Path, product.ID))
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in catalog.Product
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = id

	product, err := h.store.UpdateProduct(r.Context(), in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// photoSummary is the listing form of a photo: metadata without content.
type photoSummary struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	Description string `json:"description,omitempty"`
	Extension   string `json:"extension"`
	Size        int    `json:"size"`
}

func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(w, r, "productId")
	if !ok {
		return
	}

	// A listing for a product that does not exist is a 404, not an empty list.
	if _, err := h.store.GetProduct(r.Context(), productID); err != nil {
		respondStoreError(w, err)
		return
	}

	photos, err := h.store.ListPhotos(r.Context(), productID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]photoSummary, 0, len(photos))
	for _, p := range photos {
		out = append(out, photoSummary{
			ID:          p.ID,
			ProductID:   p.ProductID,
			Description: p.Description,
			Extension:   p.Extension,
			Size:        len(p.Content),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GetPhoto streams the stored photo bytes with a content type derived from
// the stored extension.
func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	photo, err := h.store.GetPhoto(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	contentType := mime.TypeByExtension(photo.Extension)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="photo%d%s"`, photo.ID, photo.Extension))
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Content)
}

// AddPhoto accepts a multipart upload and attaches it to the product in the
// URL, keeping the submitted description.
func (h *Handlers) AddPhoto(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(w, r, "productId")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		http.Error(w, "malformed multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(content) > maxPhotoBytes {
		http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
		return
	}

	photo, err := h.store.AddPhoto(r.Context(), catalog.Photo{
		ProductID:   productID,
		Description: r.FormValue("description"),
		Extension:   strings.ToLower(path.Ext(header.Filename)),
		Content:     content,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	base := strings.TrimSuffix(r.URL.Path, fmt.Sprintf("/products/%d/photo", productID))
	w.Header().Set("Location", fmt.Sprintf("%s/file/%d", base, photo.ID))
	respondJSON(w, http.StatusCreated, photoSummary{
		ID:          photo.ID,
		ProductID:   photo.ProductID,
		Description: photo.Description,
		Extension:   photo.Extension,
		Size:        len(photo.Content),
	})
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePhoto(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlerFor returns the handler implementing the named route.
func (h *Handlers) handlerFor(name string) (http.HandlerFunc, error) {
	switch name {
	case "catalog.vendors.list":
		return h.ListVendors, nil
	case "catalog.vendors.get":
		return h.GetVendor, nil
	case "catalog.vendors.add":
		return h.AddVendor, nil
	case "catalog.vendors.update":
		return h.UpdateVendor, nil
	case "catalog.vendors.delete":
		return h.DeleteVendor, nil
	case "catalog.products.list":
		return h.ListProducts, nil
	case "catalog.products.get":
		return h.GetProduct, nil
	case "catalog.products.add":
		return h.AddProduct, nil
	case "catalog.products.update":
		return h.UpdateProduct, nil
	case "catalog.products.delete":
		return h.DeleteProduct, nil
	case "catalog.photos.list":
		return h.ListPhotos, nil
	case "catalog.photos.get":
		return h.GetPhoto, nil
	case "catalog.photos.add":
		return h.AddPhoto, nil
	case "catalog.photos.delete":
		return h.DeletePhoto, nil
	default:
		return nil, fmt.Errorf("api: no handler for route %q", name)
	}
}
