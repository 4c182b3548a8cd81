package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构：{status, data} / {status, message}
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success 统一成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status": StatusSuccess,
		"data":   data,
	})
}

// Created 和 Success 一样的结构，状态码 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"status": StatusSuccess,
		"data":   data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"status":  StatusError,
		"message": msg,
	})
}
