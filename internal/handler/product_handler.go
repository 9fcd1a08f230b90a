package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bangazon-api/internal/catalog"
	"bangazon-api/internal/favorites"
	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Location    string  `json:"location"`
	ImagePath   string  `json:"image_path"`
	CategoryID  uint    `json:"category_id"`
	StoreID     *uint   `json:"store_id"`
}

// ListProducts handles retrieving products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	filter, err := parseProductFilter(c)
	if err != nil {
		log.Warn("Invalid product filter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	products, err := catalog.List(db, filter)
	if err != nil {
		return internalError(c, "Failed to retrieve products", err)
	}

	// Per-viewer liked flag, passed explicitly
	if uid, ok := userID(c); ok {
		if err := favorites.MarkLiked(db, products, uid); err != nil {
			return internalError(c, "Failed to retrieve products", err)
		}
	}

	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

func parseProductFilter(c echo.Context) (catalog.Filter, error) {
	var f catalog.Filter

	if v := c.QueryParam("store_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, errors.New("invalid store_id")
		}
		sid := uint(id)
		f.StoreID = &sid
	}
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, errors.New("invalid category_id")
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("invalid min_price")
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("invalid max_price")
		}
		f.MaxPrice = &p
	}
	if v := c.QueryParam("quantity"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid quantity")
		}
		f.Quantity = &q
	}
	if v := c.QueryParam("number_sold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid number_sold")
		}
		f.NumberSold = &n
	}
	f.Location = c.QueryParam("location")
	f.SoldOnly = c.QueryParam("sold_only") == "true"

	switch d := c.QueryParam("direction"); d {
	case "", "asc", "desc":
		f.Direction = d
	default:
		return f, errors.New("direction must be asc or desc")
	}
	return f, nil
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	db := database.GetDB()
	product, err := catalog.Get(db, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			log.Warn("Product not found", zap.Uint("product_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return internalError(c, "Failed to retrieve product", err)
	}

	if uid, ok := userID(c); ok {
		liked, err := favorites.IsLikedBy(db, product.ID, uid)
		if err != nil {
			return internalError(c, "Failed to retrieve product", err)
		}
		product.IsLiked = liked
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product owned by the caller
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := catalog.ValidateInput(req.Name, req.Price, req.Quantity); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var category model.ProductCategory
	if result := db.First(&category, req.CategoryID); result.Error != nil {
		log.Warn("Product category not found", zap.Uint("category_id", req.CategoryID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
	}

	product := model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Quantity:    req.Quantity,
		Location:    req.Location,
		ImagePath:   req.ImagePath,
		CategoryID:  req.CategoryID,
		CustomerID:  custID,
		StoreID:     req.StoreID,
	}
	if result := db.Create(&product); result.Error != nil {
		return internalError(c, "Failed to create product", result.Error)
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Float64("price", product.Price))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product owned by the caller
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := catalog.ValidateInput(req.Name, req.Price, req.Quantity); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var category model.ProductCategory
	if result := db.First(&category, req.CategoryID); result.Error != nil {
		log.Warn("Product category not found", zap.Uint("category_id", req.CategoryID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
	}

	var product model.Product
	if result := db.Where("id = ? AND customer_id = ?", id, custID).First(&product); result.Error != nil {
		log.Warn("Product not found for update", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Description = req.Description
	product.Quantity = req.Quantity
	product.Location = req.Location
	product.ImagePath = req.ImagePath
	product.CategoryID = req.CategoryID
	product.StoreID = req.StoreID

	if result := db.Save(&product); result.Error != nil {
		return internalError(c, "Failed to update product", result.Error)
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.NoContent(http.StatusNoContent)
}

// DeleteProduct soft-deletes a product owned by the caller
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	result := database.GetDB().Where("id = ? AND customer_id = ?", id, custID).Delete(&model.Product{})
	if result.Error != nil {
		return internalError(c, "Failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.NoContent(http.StatusNoContent)
}

// RecommendProduct records a recommendation of this product to another customer
func RecommendProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var req struct {
		RecipientID uint `json:"recipient_id"`
	}
	if err := c.Bind(&req); err != nil || req.RecipientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient_id is required"})
	}

	rec, err := catalog.Recommend(database.GetDB(), id, custID, req.RecipientID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		case errors.Is(err, catalog.ErrInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return internalError(c, "Failed to create recommendation", err)
		}
	}

	log.Info("Product recommended",
		zap.Uint("product_id", id),
		zap.Uint("recipient_id", req.RecipientID))
	return c.JSON(http.StatusCreated, rec)
}

// RateProduct upserts the caller's rating of a product
func RateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	custID, ok := customerID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := catalog.Rate(database.GetDB(), id, custID, req.Rating); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		case errors.Is(err, catalog.ErrInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return internalError(c, "Failed to rate product", err)
		}
	}

	log.Info("Product rated", zap.Uint("product_id", id), zap.Int("rating", req.Rating))
	return c.NoContent(http.StatusNoContent)
}

// LikeProduct records the caller's like. First like returns 201; a repeat
// returns 200 with the existing row.
func LikeProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	fav, created, err := favorites.LikeProduct(database.GetDB(), uid, id)
	if err != nil {
		if errors.Is(err, favorites.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return internalError(c, "Failed to like product", err)
	}

	prometheus.RecordFavoriteOperation("like")
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	log.Info("Product liked",
		zap.Uint("product_id", id),
		zap.Bool("created", created))
	return c.JSON(status, echo.Map{
		"favorite_product_id": fav.ID,
		"created":             created,
	})
}

// UnlikeProduct deletes the caller's like of a product
func UnlikeProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	if err := favorites.UnlikeProduct(database.GetDB(), uid, id); err != nil {
		if errors.Is(err, favorites.ErrFavoriteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Favorite not found"})
		}
		return internalError(c, "Failed to unlike product", err)
	}

	prometheus.RecordFavoriteOperation("unlike")
	log.Info("Product unliked", zap.Uint("product_id", id))
	return c.NoContent(http.StatusNoContent)
}

// ListLikedProducts lists the caller's liked products
func ListLikedProducts(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	db := database.GetDB()
	products, err := favorites.LikedProducts(db, uid)
	if err != nil {
		return internalError(c, "Failed to retrieve liked products", err)
	}
	if err := catalog.AttachDerived(db, products); err != nil {
		return internalError(c, "Failed to retrieve liked products", err)
	}
	return c.JSON(http.StatusOK, products)
}
