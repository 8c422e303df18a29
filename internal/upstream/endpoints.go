package upstream

// Endpoint paths on the hosted ordering backend. The surface is fixed by the
// backend vendor; paths are spelled exactly as consumed.
const (
	EndpointLoginEmail     = "/api/login"
	EndpointLoginPhone     = "/api/loginPhone"
	EndpointRegister       = "/api/register"
	EndpointForgotPassword = "/api/forgotPassword"
	EndpointResetPassword  = "/api/resetPassword"
	EndpointUpdateProfile  = "/api/updateProfile"

	EndpointShowRestaurants          = "/api/showRestaurants"
	EndpointShowProductByID          = "/api/showProductById"
	EndpointShowRestaurantReviews    = "/api/showRestaurantReviews"
	EndpointShowRestaurantCategories = "/api/showRestaurantCategories"
	EndpointSearchRestaurants        = "/api/searchRestaurantsWithProducts"
	EndpointGetSliders               = "/api/getSliders"
	EndpointGetCategories            = "/api/getCategories"

	EndpointShowFavorites = "/api/showFavorites"
	EndpointAddFavorite   = "/api/addFavorite"

	EndpointShowCartProducts = "/api/showCartProducts"
	EndpointAddToCart        = "/api/addToCart"
	EndpointUpdateCartItem   = "/api/updateCartItemQuantity"
	EndpointRemoveFromCart   = "/api/removeToCart"
	EndpointEmptyCart        = "/api/emptyCart"

	EndpointShowAddresses    = "/api/showAddresses"
	EndpointAddAddress       = "/api/addAddress"
	EndpointRemoveAddress    = "/api/removeAddress"
	EndpointSetActiveAddress = "/api/setActiveAddress"

	EndpointAddOrder         = "/api/addOrder"
	EndpointShowOrders       = "/api/showOrders"
	EndpointShowOrderDetails = "/api/showOrderDetails"
	EndpointOrderCancelUser  = "/api/orderCancelUser"

	EndpointShowSettings = "/api/showSettings"
	EndpointContact      = "/api/contact"
)
