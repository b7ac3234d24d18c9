package wishlist

type WishlistServiceAPI interface {
	Add(userID, academicID uint) (*Wishlist, error)
	Remove(userID, academicID uint) error
	List(userID uint, f ListFilter) ([]Wishlist, int64, error)
}

var _ WishlistServiceAPI = (*WishlistService)(nil)
