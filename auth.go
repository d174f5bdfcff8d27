package main

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenCookie = "token"

type Claims struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "defaultsecret"
	}
	return []byte(secret)
}

func GenerateToken(u *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ========================
// SIGNUP HANDLER
// ========================

type RegisterRequest struct {
	Username   string `form:"username" json:"username" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required"`
	Email      string `form:"email" json:"email" binding:"required"`
	FullName   string `form:"fullName" json:"full_name" binding:"required"`
	Role       string `form:"role" json:"role"`
	StudentID  string `form:"studentId" json:"student_id"`
	Department string `form:"department" json:"department"`
	Year       string `form:"year" json:"year"`
}

func Signup(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	role := RoleStudent
	if req.Role != "" {
		parsed, ok := ParseRole(req.Role)
		if !ok {
			jsonError(c, http.StatusBadRequest, "role must be ADMIN or STUDENT")
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := User{
		Username:   strings.TrimSpace(req.Username),
		Password:   string(hash),
		Email:      strings.TrimSpace(req.Email),
		Role:       role,
		FullName:   strings.TrimSpace(req.FullName),
		StudentID:  req.StudentID,
		Department: req.Department,
		Year:       req.Year,
	}
	if err := DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusConflict, "username already taken")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"user":    user,
	})
}

// ========================
// LOGIN HANDLER
// ========================

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	var user User

	if err := c.ShouldBind(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := GenerateToken(&user)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	// Cookie carries the token for the browser flow; API clients use the
	// Authorization header instead.
	c.SetCookie(tokenCookie, token, int(24*time.Hour/time.Second), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
	setFlashSuccess(c, "Logged out successfully")
	c.Redirect(http.StatusSeeOther, "/")
}
